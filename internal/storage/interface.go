package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

// FileStorage stores uploaded rental files (payment proofs, return condition images).
// Supports the local filesystem and S3-compatible object stores.
type FileStorage interface {
	// Upload stores body under key and returns the URL clients use to fetch it.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Open returns the stored file. Only the local backend serves files itself.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the file. Deleting a missing file is not an error.
	Delete(ctx context.Context, key string) error
}
