package s3client

import (
	"fmt"
	"strings"
)

// IsS3URI reports whether s uses the s3:// scheme.
func IsS3URI(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

// ParseObjectURI parses s3://bucket/key into its parts. The key must name an
// object, not a prefix.
func ParseObjectURI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("URI must start with s3://")
	}

	path := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(path, "/", 2)

	bucket = parts[0]
	if bucket == "" {
		return "", "", fmt.Errorf("bucket name cannot be empty")
	}
	if len(parts) < 2 || parts[1] == "" {
		return "", "", fmt.Errorf("object key cannot be empty")
	}
	key = parts[1]
	if strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("object key cannot end with /: %s", key)
	}

	return bucket, key, nil
}
