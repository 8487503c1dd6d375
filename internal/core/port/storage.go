package port

import (
	"context"
	"io"
)

// DocumentStorage is an interface to define object storage interactions
type DocumentStorage interface {
	PutObject(ctx context.Context, key string, content io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, key string) error
}
