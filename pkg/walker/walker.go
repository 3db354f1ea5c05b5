// Package walker lists the regular files below a directory.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yuya-takeyama/zipcompare/pkg/manifest"
)

// NotFoundError is returned when the root does not reference an existing
// directory.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("directory %q does not exist", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// FileEntry represents a local file
type FileEntry struct {
	Name string // Relative path from root, forward slashes
	Path string // Path on disk
	Size int64
}

// Walker walks local files
type Walker struct {
	root   string
	logger *zap.Logger
}

// New validates that root is a directory and returns a Walker for it.
func New(root string, logger *zap.Logger) (*Walker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: root, Err: err}
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Path: root}
	}

	// WalkDir does not descend into a symlinked root, so resolve it first
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	return &Walker{root: resolved, logger: logger}, nil
}

// Root returns the directory being walked.
func (w *Walker) Root() string { return w.root }

// Walk lists every regular file below the root.
//
// Symlinks to regular files are reported with the target's size. Symlinks to
// directories are not followed, so link cycles cannot occur. Dangling links
// and special files are skipped.
func (w *Walker) Walk() ([]FileEntry, error) {
	var files []FileEntry

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		info, err := w.fileInfo(path, d)
		if err != nil {
			return err
		}
		if info == nil {
			return nil
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			return fmt.Errorf("get relative path: %w", err)
		}

		// Only the host separator is rewritten; on POSIX a backslash is part
		// of the file name
		files = append(files, FileEntry{
			Name: filepath.ToSlash(relPath),
			Path: path,
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return files, nil
}

// fileInfo returns nil info for entries that are not regular files.
func (w *Walker) fileInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			w.logger.Warn("skipping dangling symlink", zap.String("path", path), zap.Error(err))
			return nil, nil
		}
		if !info.Mode().IsRegular() {
			w.logger.Debug("not following symlink", zap.String("path", path))
			return nil, nil
		}
		return info, nil
	}

	if !d.Type().IsRegular() {
		w.logger.Debug("skipping special file", zap.String("path", path))
		return nil, nil
	}

	info, err := d.Info()
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}
	return info, nil
}

// Manifest converts walked entries to a name-to-size mapping.
func Manifest(files []FileEntry) manifest.Manifest {
	m := make(manifest.Manifest, len(files))
	for _, f := range files {
		m[f.Name] = f.Size
	}
	return m
}

// ReadManifest walks root and returns its name-to-size mapping.
func ReadManifest(root string, logger *zap.Logger) (manifest.Manifest, error) {
	w, err := New(root, logger)
	if err != nil {
		return nil, err
	}
	files, err := w.Walk()
	if err != nil {
		return nil, err
	}
	return Manifest(files), nil
}
