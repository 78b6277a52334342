package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps documents in a fixed directory, one file per key. It mirrors
// the layout the portal always used on disk (static/pdfs/<asset>.pdf) and
// backs local runs and tests.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{root: root}, nil
}

// path flattens the key so stored files cannot escape the root directory.
func (s *FSStore) path(key string) string {
	return filepath.Join(s.root, strings.ReplaceAll(filepath.Clean("/"+key), "/", "_"))
}

// Upload writes the object to disk. A concurrent upload for the same key is
// last-writer-wins; there is no locking.
func (s *FSStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Download opens the stored object for reading.
func (s *FSStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
