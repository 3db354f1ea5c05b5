// Package compare runs a full archive-versus-directory comparison.
package compare

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yuya-takeyama/zipcompare/pkg/archive"
	"github.com/yuya-takeyama/zipcompare/pkg/manifest"
	"github.com/yuya-takeyama/zipcompare/pkg/reconcile"
	"github.com/yuya-takeyama/zipcompare/pkg/s3client"
	"github.com/yuya-takeyama/zipcompare/pkg/verify"
	"github.com/yuya-takeyama/zipcompare/pkg/walker"
)

type Options struct {
	Includes    []string
	Excludes    []string
	Checksum    verify.Mode
	Concurrency int
	Logger      *zap.Logger
	// S3 is used for s3:// archive paths. It may be nil when only local
	// archives are compared.
	S3 s3client.Client
}

// Comparer compares an archive with a directory
type Comparer struct {
	filter   *manifest.Filter
	verifier *verify.Verifier
	s3       s3client.Client
	logger   *zap.Logger
}

func New(opts Options) (*Comparer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var filter *manifest.Filter
	if len(opts.Includes) > 0 || len(opts.Excludes) > 0 {
		f, err := manifest.NewFilter(opts.Includes, opts.Excludes)
		if err != nil {
			return nil, err
		}
		filter = f
	}

	mode := opts.Checksum
	if mode == "" {
		mode = verify.ModeNone
	}

	return &Comparer{
		filter:   filter,
		verifier: verify.New(mode, opts.Concurrency, logger),
		s3:       opts.S3,
		logger:   logger,
	}, nil
}

// Verified reports whether content checksums are part of the comparison.
func (c *Comparer) Verified() bool {
	return c.verifier.Mode() != verify.ModeNone
}

// Run compares the archive at archivePath (a local path or s3:// URI) with
// the directory at dirPath. The archive is opened first; if it is missing or
// malformed the directory is never read.
func (c *Comparer) Run(ctx context.Context, archivePath, dirPath string) (*reconcile.Result, error) {
	a, err := c.openArchive(ctx, archivePath)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	archiveManifest := a.Manifest()
	c.logger.Debug("read archive", zap.String("archive", a.Name()), zap.Int("entries", len(archiveManifest)))

	w, err := walker.New(dirPath, c.logger)
	if err != nil {
		return nil, err
	}
	files, err := w.Walk()
	if err != nil {
		return nil, err
	}
	dirManifest := walker.Manifest(files)
	c.logger.Debug("walked directory", zap.String("directory", dirPath), zap.Int("files", len(dirManifest)))

	if c.filter != nil {
		archiveManifest = c.filter.Apply(archiveManifest)
		dirManifest = c.filter.Apply(dirManifest)
		c.logger.Debug("applied filters",
			zap.Int("entries", len(archiveManifest)),
			zap.Int("files", len(dirManifest)))
	}

	result := reconcile.Compare(archiveManifest, dirManifest)

	if c.Verified() {
		mismatches, err := c.verifier.Verify(ctx, a, w.Root(), result.Matched)
		if err != nil {
			return nil, fmt.Errorf("failed to verify checksums: %w", err)
		}
		result.ApplyChecksums(mismatches)
	}

	c.logger.Debug("comparison complete",
		zap.Int("only_in_archive", len(result.OnlyInArchive)),
		zap.Int("only_in_directory", len(result.OnlyInDirectory)),
		zap.Int("size_mismatch", len(result.SizeMismatch)),
		zap.Int("checksum_mismatch", len(result.ChecksumMismatch)),
		zap.Int("matched", len(result.Matched)))

	return &result, nil
}

func (c *Comparer) openArchive(ctx context.Context, archivePath string) (*archive.Archive, error) {
	if !s3client.IsS3URI(archivePath) {
		return archive.Open(archivePath)
	}
	if c.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured for %s", archivePath)
	}
	return s3client.OpenArchive(ctx, c.s3, archivePath)
}
