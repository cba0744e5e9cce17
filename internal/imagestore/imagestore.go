package imagestore

import (
	"context"
	"io"
)

// ImageStore holds the uploaded photos referenced by history entries.
type ImageStore interface {
	Save(ctx context.Context, prefix, mimeType string, data []byte) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
