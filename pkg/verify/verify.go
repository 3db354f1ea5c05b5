// Package verify compares the content of archive members and directory files
// whose sizes already agree.
package verify

import (
	"context"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/crc32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yuya-takeyama/zipcompare/pkg/archive"
	"github.com/yuya-takeyama/zipcompare/pkg/reconcile"
)

const bufferSize = 64 * 1024 // 64KB buffer

const defaultConcurrency = 8

// Mode selects how content is compared.
type Mode string

const (
	// ModeNone compares sizes only.
	ModeNone Mode = "none"
	// ModeCRC32 compares the CRC-32 stored in the zip header with the CRC-32
	// of the directory file. The archive content is not read.
	ModeCRC32 Mode = "crc32"
	// ModeContent decompresses each member and compares xxHash64 digests.
	ModeContent Mode = "content"
)

// ParseMode converts a flag value to a Mode. An empty string means ModeNone.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNone:
		return ModeNone, nil
	case ModeCRC32, ModeContent:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown checksum mode %q (want none, crc32 or content)", s)
	}
}

// EntrySource is the archive side of a verification.
type EntrySource interface {
	Entry(name string) (archive.Entry, bool)
	OpenEntry(name string) (io.ReadCloser, error)
}

// Verifier checks equal-size names for content differences.
type Verifier struct {
	mode        Mode
	concurrency int
	logger      *zap.Logger
}

// New creates a Verifier. concurrency <= 0 selects the default.
func New(mode Mode, concurrency int, logger *zap.Logger) *Verifier {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		mode:        mode,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Mode returns the comparison mode.
func (v *Verifier) Mode() Mode { return v.mode }

// Verify returns the names among names whose checksums differ. root is the
// directory the names are relative to.
func (v *Verifier) Verify(ctx context.Context, src EntrySource, root string, names []string) (map[string]reconcile.ChecksumPair, error) {
	mismatches := map[string]reconcile.ChecksumPair{}
	if v.mode == ModeNone || len(names) == 0 {
		return mismatches, nil
	}

	v.logger.Debug("verifying checksums",
		zap.String("mode", string(v.mode)),
		zap.Int("files", len(names)),
		zap.Int("concurrency", v.concurrency))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			pair, err := v.checksums(src, filepath.Join(root, filepath.FromSlash(name)), name)
			if err != nil {
				return err
			}
			if pair.Archive != pair.Directory {
				v.logger.Debug("checksum mismatch",
					zap.String("name", name),
					zap.String("archive", pair.Archive),
					zap.String("directory", pair.Directory))
				mu.Lock()
				mismatches[name] = pair
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mismatches, nil
}

func (v *Verifier) checksums(src EntrySource, localPath, name string) (reconcile.ChecksumPair, error) {
	switch v.mode {
	case ModeCRC32:
		entry, ok := src.Entry(name)
		if !ok {
			return reconcile.ChecksumPair{}, fmt.Errorf("entry %q not found in archive", name)
		}
		local, err := hashFile(localPath, crc32.NewIEEE())
		if err != nil {
			return reconcile.ChecksumPair{}, err
		}
		return reconcile.ChecksumPair{
			Archive:   fmt.Sprintf("%08x", entry.CRC32),
			Directory: local,
		}, nil

	case ModeContent:
		rc, err := src.OpenEntry(name)
		if err != nil {
			return reconcile.ChecksumPair{}, err
		}
		defer rc.Close()

		remote, err := hashReader(rc, xxhash.New())
		if err != nil {
			return reconcile.ChecksumPair{}, fmt.Errorf("read entry %q: %w", name, err)
		}
		local, err := hashFile(localPath, xxhash.New())
		if err != nil {
			return reconcile.ChecksumPair{}, err
		}
		return reconcile.ChecksumPair{Archive: remote, Directory: local}, nil
	}

	return reconcile.ChecksumPair{}, fmt.Errorf("unsupported checksum mode %q", v.mode)
}

func hashFile(path string, h hash.Hash) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	sum, err := hashReader(file, h)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return sum, nil
}

func hashReader(r io.Reader, h hash.Hash) (string, error) {
	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
