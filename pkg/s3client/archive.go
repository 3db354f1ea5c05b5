package s3client

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuya-takeyama/zipcompare/pkg/archive"
)

// OpenArchive opens a zip archive stored at an s3://bucket/key URI without
// downloading it.
func OpenArchive(ctx context.Context, client Client, uri string) (*archive.Archive, error) {
	bucket, key, err := ParseObjectURI(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid S3 URI: %w", err)
	}

	info, err := client.HeadObject(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, &archive.NotFoundError{Path: uri, Err: err}
		}
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	return archive.NewFromReaderAt(uri, NewObjectReaderAt(ctx, client, bucket, key, info.Size), info.Size)
}
