// Package storage keeps uploaded file content apart from its metadata.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotExist is returned when no content is stored under a path.
	ErrNotExist = errors.New("storage: file does not exist")
	// ErrInvalidPath is returned for paths that are absolute or leave the storage root.
	ErrInvalidPath = errors.New("storage: invalid path")
)

// Storage stores file content under slash-separated relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns ErrNotExist when nothing is stored under path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete does not fail for missing content.
	Delete(ctx context.Context, path string) error
}
