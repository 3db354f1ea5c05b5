// Package manifest holds the name-to-size view shared by the archive and
// directory sides of a comparison.
package manifest

import (
	"sort"
	"strings"
)

// Manifest maps a normalized, forward-slash relative path to a size in bytes.
type Manifest map[string]int64

// Names returns the manifest keys in lexical order.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizeName converts an archive or filesystem name to the key form used
// in a Manifest: forward slashes, no leading "./" or "/".
func NormalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	for {
		switch {
		case strings.HasPrefix(name, "./"):
			name = name[2:]
		case strings.HasPrefix(name, "/"):
			name = name[1:]
		default:
			return name
		}
	}
}
