package urlparam

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/twels/front/internal/querycodec"
)

func TestParseQueryAndRepeatedLanguages(t *testing.T) {
	got, err := Parse("?q=a+b&lr=en&lr=fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{"q": "a  b", "lr": []string{"en", "fr"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "?", "a", "&", "="} {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if len(got) != 0 {
			t.Fatalf("Parse(%q): expected empty params, got %#v", raw, got)
		}
	}
}

func TestParseRepeatedThreeTimesKeepsOrder(t *testing.T) {
	got, err := Parse("lr=ja&start=10&lr=en&lr=fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{"lr": []string{"ja", "en", "fr"}, "start": "10"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePlusOnlySpecialForQuery(t *testing.T) {
	got, err := Parse("q=x%20y+z&title=a+b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("q") != "x y  z" {
		t.Fatalf("q: got %q", got.Get("q"))
	}
	if got.Get("title") != "a+b" {
		t.Fatalf("title: got %q", got.Get("title"))
	}
}

func TestParsePlainRevisionKeepsPlus(t *testing.T) {
	got, err := ParseWithOptions("q=a+b", Options{Revision: RevisionPlain})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("q") != "a+b" {
		t.Fatalf("q: got %q", got.Get("q"))
	}
}

func TestParseDecodesNames(t *testing.T) {
	got, err := Parse("l%72=en&%71=a%2Bb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{"lr": "en", "q": "a+b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSplitsOnFirstEquals(t *testing.T) {
	got, err := Parse("q=x=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("q") != "x=1" {
		t.Fatalf("q: got %q", got.Get("q"))
	}
}

func TestParseMissingValue(t *testing.T) {
	_, err := Parse("q=a&flag")
	var me *MalformedParamError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedParamError, got %v", err)
	}
	if me.Pair != "flag" {
		t.Fatalf("pair: got %q", me.Pair)
	}

	got, err := ParseWithOptions("q=a&flag", Options{AllowMissingValue: true})
	if err != nil {
		t.Fatalf("lenient parse: %v", err)
	}
	want := Params{"q": "a", "flag": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSkipsEmptySegments(t *testing.T) {
	got, err := Parse("&q=a&&lr=en&")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{"q": "a", "lr": "en"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMalformedEscape(t *testing.T) {
	for _, raw := range []string{"q=%zz", "lr=%", "%G0=x"} {
		_, err := Parse(raw)
		var de *querycodec.DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("Parse(%q): expected DecodeError, got %v", raw, err)
		}
	}
}

func TestAccessors(t *testing.T) {
	p := Params{"q": "a", "lr": []string{"en", "fr"}}
	if !p.Has("lr") || p.Has("start") {
		t.Fatalf("Has mismatch")
	}
	if p.Get("lr") != "en" || p.Get("start") != "" {
		t.Fatalf("Get mismatch")
	}
	if diff := cmp.Diff([]string{"a"}, p.Values("q")); diff != "" {
		t.Fatalf("Values(q) mismatch:\n%s", diff)
	}
	vals := p.Values("lr")
	vals[0] = "changed"
	if p.Get("lr") != "en" {
		t.Fatalf("Values must return a copy")
	}
	if p.Values("start") != nil {
		t.Fatalf("Values of absent name must be nil")
	}
}

func TestParseHiddenFormRevision(t *testing.T) {
	// The hidden field "a%20b c" is form encoded by the browser on submit.
	got, err := ParseWithOptions("q=a%2520b+c&lr=en", Options{Revision: RevisionHiddenForm})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Params{"q": "a b  c", "lr": "en"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
