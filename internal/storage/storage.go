// Package storage holds the sinks collection exports are written to:
// S3-compatible object storage (MinIO, AWS S3, ...) or a local directory.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrPresignUnsupported is returned by sinks that cannot hand out URLs.
var ErrPresignUnsupported = errors.New("presigned URLs are not supported by this storage")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
// Location is where a human finds it: a bucket/key pair or a file path.
type ObjectInfo struct {
	Key          string
	Location     string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is the export sink interface.
type Storage interface {
	// Put writes an object under the given key, replacing any existing one.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
