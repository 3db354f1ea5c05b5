package manifest

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which names take part in a comparison.
type Filter struct {
	includes []string
	excludes []string
}

// NewFilter validates the patterns and returns a Filter.
func NewFilter(includes, excludes []string) (*Filter, error) {
	for _, p := range append(append([]string{}, includes...), excludes...) {
		if !doublestar.ValidatePattern(strings.TrimSuffix(p, "/")) {
			return nil, fmt.Errorf("invalid pattern: %q", p)
		}
	}
	return &Filter{includes: includes, excludes: excludes}, nil
}

// Allowed reports whether name survives the include and exclude patterns.
// A nil Filter allows everything.
func (f *Filter) Allowed(name string) bool {
	if f == nil {
		return true
	}
	if len(f.includes) > 0 && !matchAny(f.includes, name) {
		return false
	}
	return !matchAny(f.excludes, name)
}

// Apply returns a new manifest holding only the allowed names.
func (f *Filter) Apply(m Manifest) Manifest {
	out := make(Manifest, len(m))
	for name, size := range m {
		if f.Allowed(name) {
			out[name] = size
		}
	}
	return out
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matchPattern(pattern, name) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, name string) bool {
	// Directory patterns (ending with /) match the directory and anything below it
	if strings.HasSuffix(pattern, "/") {
		dirPattern := strings.TrimSuffix(pattern, "/")
		parts := strings.Split(name, "/")
		for i := 1; i < len(parts); i++ {
			if matched, _ := doublestar.Match(dirPattern, strings.Join(parts[:i], "/")); matched {
				return true
			}
		}
		return false
	}
	matched, _ := doublestar.Match(pattern, name)
	return matched
}
