// Package report renders a reconcile.Result for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yuya-takeyama/zipcompare/pkg/reconcile"
)

// Format selects the report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value to a Format. An empty string means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Options controls what the report includes.
type Options struct {
	// Verified adds the checksum mismatch section.
	Verified bool
}

// Write renders result in the given format.
func Write(w io.Writer, format Format, result *reconcile.Result, opts Options) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, result, opts)
	default:
		return WriteText(w, result, opts)
	}
}

// WriteText prints the labeled sections of a comparison, each either listing
// its names or "(None)".
func WriteText(w io.Writer, result *reconcile.Result, opts Options) error {
	p := &printer{w: w}

	p.printf("\nComparison Results:\n")

	p.section("Files only in archive", result.OnlyInArchive, func(name string) string {
		return name
	})
	p.section("Files only in directory", result.OnlyInDirectory, func(name string) string {
		return name
	})
	p.section("Files with size mismatch", result.SizeMismatchNames(), func(name string) string {
		pair := result.SizeMismatch[name]
		return fmt.Sprintf("%s: archive=%d directory=%d", name, pair.Archive, pair.Directory)
	})
	if opts.Verified {
		p.section("Files with checksum mismatch", result.ChecksumMismatchNames(), func(name string) string {
			pair := result.ChecksumMismatch[name]
			return fmt.Sprintf("%s: archive=%s directory=%s", name, pair.Archive, pair.Directory)
		})
	}

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string, names []string, line func(string) string) {
	p.printf("\n%s:\n", title)
	if len(names) == 0 {
		p.printf("  (None)\n")
		return
	}
	for _, name := range names {
		p.printf("  - %s\n", line(name))
	}
}

// JSONReport is the machine-readable form of a comparison
type JSONReport struct {
	OnlyInArchive    []string                          `json:"only_in_archive"`
	OnlyInDirectory  []string                          `json:"only_in_directory"`
	SizeMismatch     map[string]reconcile.SizePair     `json:"size_mismatch"`
	ChecksumMismatch map[string]reconcile.ChecksumPair `json:"checksum_mismatch"`
	Summary          Summary                           `json:"summary"`
}

type Summary struct {
	OnlyInArchive    int  `json:"only_in_archive"`
	OnlyInDirectory  int  `json:"only_in_directory"`
	SizeMismatch     int  `json:"size_mismatch"`
	ChecksumMismatch int  `json:"checksum_mismatch"`
	Matched          int  `json:"matched"`
	Identical        bool `json:"identical"`
}

// NewJSONReport builds the JSON form of result.
func NewJSONReport(result *reconcile.Result, opts Options) JSONReport {
	r := JSONReport{
		OnlyInArchive:   nonNil(result.OnlyInArchive),
		OnlyInDirectory: nonNil(result.OnlyInDirectory),
		SizeMismatch:    result.SizeMismatch,
		Summary: Summary{
			OnlyInArchive:    len(result.OnlyInArchive),
			OnlyInDirectory:  len(result.OnlyInDirectory),
			SizeMismatch:     len(result.SizeMismatch),
			ChecksumMismatch: len(result.ChecksumMismatch),
			Matched:          len(result.Matched),
			Identical:        !result.HasDifferences(),
		},
	}
	if r.SizeMismatch == nil {
		r.SizeMismatch = map[string]reconcile.SizePair{}
	}
	r.ChecksumMismatch = map[string]reconcile.ChecksumPair{}
	if opts.Verified && result.ChecksumMismatch != nil {
		r.ChecksumMismatch = result.ChecksumMismatch
	}
	return r
}

// WriteJSON writes the indented JSON form of result.
func WriteJSON(w io.Writer, result *reconcile.Result, opts Options) error {
	data, err := json.MarshalIndent(NewJSONReport(result, opts), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteJSONFile writes the JSON report to path.
func WriteJSONFile(path string, result *reconcile.Result, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteJSON(f, result, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
