package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store reads and writes named blobs.
type Store interface {
	// Get returns the full contents of a blob.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put writes a blob atomically, replacing any previous contents.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob succeeds.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
