package s3client

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const defaultBlockSize = 1 << 20 // 1MiB

// ObjectReaderAt serves io.ReaderAt over an S3 object using ranged GETs.
// The most recently fetched block is kept so the many small reads a zip
// reader issues against its central directory hit the network once.
type ObjectReaderAt struct {
	ctx       context.Context
	client    Client
	bucket    string
	key       string
	size      int64
	blockSize int64

	mu       sync.Mutex
	blockOff int64
	block    []byte
}

// NewObjectReaderAt returns a reader for an object of known size.
func NewObjectReaderAt(ctx context.Context, client Client, bucket, key string, size int64) *ObjectReaderAt {
	return &ObjectReaderAt{
		ctx:       ctx,
		client:    client,
		bucket:    bucket,
		key:       key,
		size:      size,
		blockSize: defaultBlockSize,
		blockOff:  -1,
	}
}

// Size returns the object size.
func (r *ObjectReaderAt) Size() int64 { return r.size }

func (r *ObjectReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset: %d", off)
	}
	if off >= r.size {
		return 0, io.EOF
	}

	want := int64(len(p))
	if off+want > r.size {
		want = r.size - off
	}

	r.mu.Lock()
	if r.block != nil && off >= r.blockOff && off+want <= r.blockOff+int64(len(r.block)) {
		n := copy(p, r.block[off-r.blockOff:off-r.blockOff+want])
		r.mu.Unlock()
		return n, eofIfShort(n, len(p))
	}
	r.mu.Unlock()

	// Large reads (entry content) go straight through; small reads fetch a block
	if want >= r.blockSize {
		n, err := r.fetch(p[:want], off)
		if err != nil {
			return n, err
		}
		return n, eofIfShort(n, len(p))
	}

	length := r.blockSize
	if off+length > r.size {
		length = r.size - off
	}
	block := make([]byte, length)
	if _, err := r.fetch(block, off); err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.block = block
	r.blockOff = off
	r.mu.Unlock()

	n := copy(p, block[:want])
	return n, eofIfShort(n, len(p))
}

func (r *ObjectReaderAt) fetch(p []byte, off int64) (int, error) {
	body, err := r.client.GetObjectRange(r.ctx, r.bucket, r.key, off, int64(len(p)))
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.ReadFull(body, p)
	if err != nil {
		return n, fmt.Errorf("read s3://%s/%s at %d: %w", r.bucket, r.key, off, err)
	}
	return n, nil
}

func eofIfShort(n, want int) error {
	if n < want {
		return io.EOF
	}
	return nil
}
