package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "twels-test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestRecordAndListSearches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, q := range []string{"x^2", "a b  c"} {
		_, err := s.RecordSearch(ctx, SearchRecord{
			Query:       q,
			Encoded:     "enc",
			Variant:     "v2",
			Languages:   []string{"en", "ja"},
			Start:       i * 10,
			ResultCount: 3,
			CreatedUTC:  created,
		})
		if err != nil {
			t.Fatalf("record search: %v", err)
		}
	}

	got, err := s.ListSearches(ctx, 10)
	if err != nil {
		t.Fatalf("list searches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 searches, got %d", len(got))
	}
	if got[0].Query != "a b  c" || got[0].Start != 10 {
		t.Fatalf("newest first expected, got %+v", got[0])
	}
	if diff := cmp.Diff([]string{"en", "ja"}, got[1].Languages); diff != "" {
		t.Fatalf("languages (-want +got):\n%s", diff)
	}
	if !got[1].CreatedUTC.Equal(created) {
		t.Fatalf("created: %v", got[1].CreatedUTC)
	}

	limited, err := s.ListSearches(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit ignored: %d", len(limited))
	}

	n, err := s.FlushSearches(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n != 2 {
		t.Fatalf("flushed %d rows", n)
	}
	got, err = s.ListSearches(ctx, 10)
	if err != nil {
		t.Fatalf("list after flush: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
}

func TestRecordSearchNilLanguages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.RecordSearch(ctx, SearchRecord{Query: "x", Encoded: "x", Variant: "v2"}); err != nil {
		t.Fatalf("record search: %v", err)
	}
	got, err := s.ListSearches(ctx, 0)
	if err != nil {
		t.Fatalf("list searches: %v", err)
	}
	if len(got) != 1 || len(got[0].Languages) != 0 {
		t.Fatalf("unexpected searches: %+v", got)
	}
	if got[0].CreatedUTC.IsZero() {
		t.Fatalf("created time should default to now")
	}
}

func TestRecordAndListUploads(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.RecordUpload(ctx, UploadRecord{Filename: "a.png", SizeBytes: 12, Recognized: true, Latex: `\frac{1}{2}`}); err != nil {
		t.Fatalf("record upload: %v", err)
	}
	if _, err := s.RecordUpload(ctx, UploadRecord{Filename: "b.jpg", SizeBytes: 7}); err != nil {
		t.Fatalf("record upload: %v", err)
	}
	got, err := s.ListUploads(ctx, 10)
	if err != nil {
		t.Fatalf("list uploads: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(got))
	}
	if got[0].Filename != "b.jpg" || got[0].Recognized {
		t.Fatalf("unexpected newest upload: %+v", got[0])
	}
	if !got[1].Recognized || got[1].Latex != `\frac{1}{2}` {
		t.Fatalf("unexpected oldest upload: %+v", got[1])
	}
}

func TestOpenTwiceMigratesIdempotently(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "twels.db")
	for i := 0; i < 2; i++ {
		s, err := Open(dbPath)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		_ = s.Close()
	}
}
