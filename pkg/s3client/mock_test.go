package s3client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// mockClient serves objects from memory and counts range requests
type mockClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    int
}

func newMockClient() *mockClient {
	return &mockClient{objects: map[string][]byte{}}
}

func (m *mockClient) put(bucket, key string, data []byte) {
	m.objects[bucket+"/"+key] = data
}

func (m *mockClient) HeadObject(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("head %s/%s: %w", bucket, key, ErrObjectNotFound)
	}
	return &ObjectInfo{Size: int64(len(data))}, nil
}

func (m *mockClient) GetObjectRange(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error) {
	m.mu.Lock()
	m.gets++
	m.mu.Unlock()

	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, ErrObjectNotFound)
	}
	end := offset + length
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return io.NopCloser(bytes.NewReader(data[offset:end])), nil
}
