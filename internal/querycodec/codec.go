// Package querycodec converts multi-query search text to and from the
// value carried by the q URL parameter.
//
// A run of two or more spaces separates independent queries. A single space
// is literal content of a query. Two variants exist: V1 escapes only the
// first space of each query and joins queries with a single literal space,
// V2 escapes everything and carries the separator as '+'.
package querycodec

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Separator is the canonical query separator written back by decoders.
const Separator = "  "

var (
	separatorRun    = regexp.MustCompile(` {2,}`)
	encodedSpaceRun = regexp.MustCompile(`(%20){2,}`)
)

type Variant int

const (
	V1 Variant = iota + 1
	V2
)

func (v Variant) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant accepts "v1" or "v2" (case-insensitive). Empty selects V2.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "v2":
		return V2, nil
	case "v1":
		return V1, nil
	default:
		return 0, fmt.Errorf("unknown codec variant %q", s)
	}
}

func (v Variant) Encode(text string) string {
	if v == V1 {
		return EncodeV1(text)
	}
	return EncodeV2(text)
}

func (v Variant) Decode(value string) (string, error) {
	if v == V1 {
		return DecodeV1(value)
	}
	return DecodeV2(value)
}

// SplitQueries splits text on runs of two or more spaces. An empty text
// yields a single empty query.
func SplitQueries(text string) []string {
	return separatorRun.Split(text, -1)
}

// EncodeV1 keeps the hidden-form encoding: the first space of each query is
// written as %20, later spaces stay literal, and queries are joined with one
// literal space. Queries with more than one inner space do not survive
// DecodeV1.
func EncodeV1(text string) string {
	queries := SplitQueries(text)
	for i, q := range queries {
		head, rest, found := strings.Cut(q, " ")
		if !found {
			queries[i] = EscapeComponent(q)
			continue
		}
		parts := strings.Split(rest, " ")
		for j, p := range parts {
			parts[j] = EscapeComponent(p)
		}
		queries[i] = EscapeComponent(head) + "%20" + strings.Join(parts, " ")
	}
	return strings.Join(queries, " ")
}

// DecodeV1 splits value on literal spaces, decodes each token and joins the
// tokens with the canonical separator.
func DecodeV1(value string) (string, error) {
	tokens := strings.Split(value, " ")
	for i, tok := range tokens {
		d, err := UnescapeComponent(tok)
		if err != nil {
			return "", err
		}
		tokens[i] = d
	}
	return strings.Join(tokens, Separator), nil
}

// EncodeV2 escapes text with URI component rules and then collapses each run
// of two or more encoded spaces into a single '+'.
func EncodeV2(text string) string {
	return encodedSpaceRun.ReplaceAllString(EscapeComponent(text), "+")
}

// DecodeV2 inverts EncodeV2. Each '+' becomes exactly two spaces before
// percent-decoding, so separator width is normalized to Separator.
func DecodeV2(value string) (string, error) {
	return UnescapeComponent(strings.ReplaceAll(value, "+", Separator))
}

// URLValue returns text as it appears after "q=" in a navigation URL. V1
// values pass through form encoding, as the hidden form submitted them.
func URLValue(v Variant, text string) string {
	if v == V1 {
		return url.QueryEscape(EncodeV1(text))
	}
	return EncodeV2(text)
}
