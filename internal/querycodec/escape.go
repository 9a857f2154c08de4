package querycodec

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

var errInvalidUTF8 = errors.New("invalid UTF-8 sequence")

// DecodeError reports a value that is not valid URI component encoding.
type DecodeError struct {
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// shouldEscape mirrors the unreserved set of ECMAScript encodeURIComponent.
func shouldEscape(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}
	return true
}

// EscapeComponent percent-encodes s byte-wise over its UTF-8 form, leaving
// only the encodeURIComponent unreserved characters as they are. A space
// becomes %20, never '+'. Invalid UTF-8 is replaced with U+FFFD first so the
// result always decodes with UnescapeComponent.
func EscapeComponent(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !shouldEscape(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// UnescapeComponent decodes %XX sequences. '+' is left untouched. Malformed
// escapes and decoded bytes that are not valid UTF-8 return a *DecodeError.
func UnescapeComponent(s string) (string, error) {
	d, err := url.PathUnescape(s)
	if err != nil {
		return "", &DecodeError{Value: s, Err: err}
	}
	if !utf8.ValidString(d) {
		return "", &DecodeError{Value: s, Err: errInvalidUTF8}
	}
	return d, nil
}
