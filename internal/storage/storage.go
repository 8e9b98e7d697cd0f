// Package storage keeps uploaded drawings in an S3-compatible object store.
// Implementations stream content and never touch local disk.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// DrawingPrefix is the key prefix under which drawings are stored.
const DrawingPrefix = "drawings"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// DrawingKey returns the object key of a drawing: drawings/<id>.<format>.
func DrawingKey(id, format string) string {
	return path.Join(DrawingPrefix, id+"."+strings.ToLower(format))
}

// ContentTypeFor maps a drawing format to the media type it is stored with.
func ContentTypeFor(format string) string {
	switch strings.ToLower(format) {
	case "pdf":
		return "application/pdf"
	case "dxf":
		return "image/vnd.dxf"
	default:
		return "application/octet-stream"
	}
}
