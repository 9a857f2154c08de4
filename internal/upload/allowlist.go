package upload

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns accept the image types the OCR service reads.
var DefaultPatterns = []string{"*.{png,jpg,jpeg,gif,bmp,webp,heic}"}

// Allowlist matches uploaded file names against glob patterns, ignoring case.
type Allowlist struct {
	patterns []string
}

func NewAllowlist(patterns []string) (*Allowlist, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid upload pattern %q", p)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("upload allowlist has no usable pattern")
	}
	return &Allowlist{patterns: out}, nil
}

// Allowed reports whether the base name of filename matches a pattern.
func (a *Allowlist) Allowed(filename string) bool {
	name := strings.ToLower(path.Base(strings.ReplaceAll(filename, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return false
	}
	for _, p := range a.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
