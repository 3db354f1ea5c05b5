package s3client

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned (wrapped) when the bucket or key does not exist.
var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Size int64
	ETag string
}

// Client is the subset of S3 needed to read an archive in place.
type Client interface {
	HeadObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)
	GetObjectRange(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error)
}
