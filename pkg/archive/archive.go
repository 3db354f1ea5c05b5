// Package archive reads the member list of a ZIP archive without extracting it.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/yuya-takeyama/zipcompare/pkg/manifest"
)

// Entry describes one file member of an archive.
type Entry struct {
	Name   string
	Size   int64
	CRC32  uint32
	Method uint16
}

// Archive is a read-only view over a ZIP central directory.
type Archive struct {
	name    string
	closer  io.Closer
	entries map[string]Entry
	files   map[string]*zip.File
}

// Open opens the ZIP file at path. The caller must Close the returned Archive.
func Open(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, &NotFoundError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a, err := NewFromReaderAt(path, f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// NewFromReaderAt builds an Archive over any random-access source of the given
// size. name is used in errors only.
func NewFromReaderAt(name string, r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil && zr == nil {
		return nil, &FormatError{Path: name, Err: err}
	}
	// A non-nil reader with an error only flags insecure member names,
	// which are harmless here since nothing is extracted.
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	zr.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())

	a := &Archive{
		name:    name,
		entries: make(map[string]Entry, len(zr.File)),
		files:   make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if isDirMarker(f) {
			continue
		}
		entryName := manifest.NormalizeName(f.Name)
		if entryName == "" {
			continue
		}
		if f.UncompressedSize64 > math.MaxInt64 {
			return nil, &FormatError{
				Path: name,
				Err:  fmt.Errorf("entry %q: uncompressed size %d out of range", f.Name, f.UncompressedSize64),
			}
		}
		// Duplicate names: last one wins
		a.entries[entryName] = Entry{
			Name:   entryName,
			Size:   int64(f.UncompressedSize64),
			CRC32:  f.CRC32,
			Method: f.Method,
		}
		a.files[entryName] = f
	}
	return a, nil
}

// ReadManifest opens the archive at path, returns its name-to-size mapping
// and closes it again.
func ReadManifest(path string) (manifest.Manifest, error) {
	a, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.Manifest(), nil
}

// Name returns the path or URI the archive was opened from.
func (a *Archive) Name() string { return a.name }

// Manifest returns the name-to-size mapping of all file members.
func (a *Archive) Manifest() manifest.Manifest {
	m := make(manifest.Manifest, len(a.entries))
	for name, e := range a.entries {
		m[name] = e.Size
	}
	return m
}

// Entry returns the member with the given normalized name.
func (a *Archive) Entry(name string) (Entry, bool) {
	e, ok := a.entries[name]
	return e, ok
}

// OpenEntry returns a reader over the decompressed content of a member.
// Reading to EOF also validates the stored CRC-32.
func (a *Archive) OpenEntry(name string) (io.ReadCloser, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("entry %q not found in %s", name, a.name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %q: %w", name, err)
	}
	return rc, nil
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func isDirMarker(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, "\\") || f.FileInfo().IsDir()
}
