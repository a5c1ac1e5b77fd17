package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

// ObjectStore is the backend for equipment images. Keys are
// "<bucket>/<object>" paths such as "equipment/3f2c....jpg".
type ObjectStore interface {
	// Save writes the object, replacing any existing one, and returns the
	// number of bytes written.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader for the object or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	// PublicURL is the download URL handed back to clients.
	PublicURL(key string) string
}
