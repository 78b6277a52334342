package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("object not found")

// DocumentStore abstracts where uploaded certificate documents live.
// Production uses MinIO; local runs and tests use a directory on disk.
type DocumentStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// DocumentKey is the deterministic storage key for an asset's document.
func DocumentKey(assetID string) string {
	return "documents/" + assetID + ".pdf"
}
