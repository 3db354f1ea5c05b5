package reconcile

// SizePair holds the two sizes of a name present on both sides.
type SizePair struct {
	Archive   int64 `json:"archive"`
	Directory int64 `json:"directory"`
}

// ChecksumPair holds the two checksums of a name whose sizes agree but whose
// content does not.
type ChecksumPair struct {
	Archive   string `json:"archive"`
	Directory string `json:"directory"`
}

// Result is the outcome of reconciling an archive manifest with a directory
// manifest. Every name appears in at most one of the fields.
type Result struct {
	OnlyInArchive    []string
	OnlyInDirectory  []string
	SizeMismatch     map[string]SizePair
	ChecksumMismatch map[string]ChecksumPair
	// Matched lists names present on both sides with equal size and no
	// recorded checksum mismatch.
	Matched []string
}

// HasDifferences reports whether anything other than matches was found.
func (r *Result) HasDifferences() bool {
	return len(r.OnlyInArchive) > 0 ||
		len(r.OnlyInDirectory) > 0 ||
		len(r.SizeMismatch) > 0 ||
		len(r.ChecksumMismatch) > 0
}
