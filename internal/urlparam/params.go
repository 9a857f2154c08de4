// Package urlparam parses the query string of the search page into named
// values, keeping repeated names in order.
package urlparam

import (
	"fmt"
	"strings"

	"github.com/twels/front/internal/querycodec"
)

// Params maps a parameter name to a string, or to a []string when the name
// occurs more than once. Slice order is the order of occurrence.
type Params map[string]any

// MalformedParamError reports a pair that has no '='.
type MalformedParamError struct {
	Pair string
}

func (e *MalformedParamError) Error() string {
	return fmt.Sprintf("malformed parameter %q: missing '='", e.Pair)
}

// Parse parses raw with DefaultOptions.
func Parse(raw string) (Params, error) {
	return ParseWithOptions(raw, DefaultOptions)
}

// ParseWithOptions parses raw, the part of a URL after '?'. A leading '?' is
// tolerated. A raw string of at most one byte ("", "?", "a") carries no
// parameters and yields an empty mapping. Empty segments between separators
// are skipped.
func ParseWithOptions(raw string, opts Options) (Params, error) {
	params := Params{}
	if len(raw) <= 1 {
		return params, nil
	}
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return params, nil
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawName, rawValue, hasEq := strings.Cut(pair, "=")
		if !hasEq && !opts.AllowMissingValue {
			return nil, &MalformedParamError{Pair: pair}
		}

		name, err := querycodec.UnescapeComponent(rawName)
		if err != nil {
			return nil, fmt.Errorf("decode parameter name: %w", err)
		}

		value, err := decodeValue(name, rawValue, opts.Revision)
		if err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", name, err)
		}

		params.add(name, value)
	}
	return params, nil
}

func decodeValue(name, raw string, rev Revision) (string, error) {
	if name != QueryParam {
		return querycodec.UnescapeComponent(raw)
	}
	switch rev {
	case RevisionPlusSeparator:
		return querycodec.DecodeV2(raw)
	case RevisionHiddenForm:
		field, err := querycodec.UnescapeComponent(strings.ReplaceAll(raw, "+", " "))
		if err != nil {
			return "", err
		}
		return querycodec.DecodeV1(field)
	default:
		return querycodec.UnescapeComponent(raw)
	}
}

func (p Params) add(name, value string) {
	switch cur := p[name].(type) {
	case nil:
		p[name] = value
	case string:
		p[name] = []string{cur, value}
	case []string:
		p[name] = append(cur, value)
	}
}

// Has reports whether name occurred at least once.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Get returns the first value of name, or "" when absent.
func (p Params) Get(name string) string {
	switch v := p[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// Values returns every value of name in order of occurrence.
func (p Params) Values(name string) []string {
	switch v := p[name].(type) {
	case string:
		return []string{v}
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	}
	return nil
}
