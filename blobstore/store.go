package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for the block-oriented device the engine
// persists to. Names are slash-separated paths relative to the device
// root; implementations create intermediate directories as needed.
//
// Blobs here are small (config documents, counter state, CSV logs), so
// the interface is whole-value rather than streaming.
type Store interface {
	// Get reads the entire blob.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error

	// Append appends data to a blob, creating it if absent.
	Append(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// Exists reports whether the blob exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Size returns the size of the blob in bytes.
	Size(ctx context.Context, name string) (int64, error)

	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
