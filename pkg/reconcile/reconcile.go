// Package reconcile computes the differences between an archive manifest and
// a directory manifest.
package reconcile

import (
	"sort"

	"github.com/yuya-takeyama/zipcompare/pkg/manifest"
)

// Compare computes set differences and size mismatches between the two
// manifests. Equal sizes are treated as a match; no content is read.
func Compare(archive, directory manifest.Manifest) Result {
	result := Result{
		OnlyInArchive:    []string{},
		OnlyInDirectory:  []string{},
		SizeMismatch:     map[string]SizePair{},
		ChecksumMismatch: map[string]ChecksumPair{},
		Matched:          []string{},
	}

	for name, archiveSize := range archive {
		dirSize, exists := directory[name]
		switch {
		case !exists:
			result.OnlyInArchive = append(result.OnlyInArchive, name)
		case archiveSize != dirSize:
			result.SizeMismatch[name] = SizePair{Archive: archiveSize, Directory: dirSize}
		default:
			result.Matched = append(result.Matched, name)
		}
	}

	for name := range directory {
		if _, exists := archive[name]; !exists {
			result.OnlyInDirectory = append(result.OnlyInDirectory, name)
		}
	}

	sort.Strings(result.OnlyInArchive)
	sort.Strings(result.OnlyInDirectory)
	sort.Strings(result.Matched)
	return result
}

// ApplyChecksums moves names with a checksum mismatch out of Matched.
func (r *Result) ApplyChecksums(mismatches map[string]ChecksumPair) {
	if len(mismatches) == 0 {
		return
	}
	if r.ChecksumMismatch == nil {
		r.ChecksumMismatch = map[string]ChecksumPair{}
	}

	matched := r.Matched[:0]
	for _, name := range r.Matched {
		if pair, ok := mismatches[name]; ok {
			r.ChecksumMismatch[name] = pair
			continue
		}
		matched = append(matched, name)
	}
	r.Matched = matched
}

// SizeMismatchNames returns the size-mismatched names in lexical order.
func (r *Result) SizeMismatchNames() []string {
	return sortedKeys(r.SizeMismatch)
}

// ChecksumMismatchNames returns the checksum-mismatched names in lexical order.
func (r *Result) ChecksumMismatchNames() []string {
	return sortedKeys(r.ChecksumMismatch)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
