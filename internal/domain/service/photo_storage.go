package service

import (
	"context"
	"io"
)

// PhotoStorage abstracts the object store holding user and plant photos.
// Entities persist only the storage key; URLs are derived at the read
// boundary.
type PhotoStorage interface {
	// Upload writes the object under the given key.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// URL derives the public URL for a stored key. Returns an empty string
	// for an empty key.
	URL(key string) string
}
