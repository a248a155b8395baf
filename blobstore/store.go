package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
// The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction over the places an archived measurement set
// can live: a local directory, an S3 bucket, a MinIO deployment or plain
// memory in tests. Names are slash-separated keys relative to the store
// root.
type BlobStore interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create opens a blob for streaming writes. The blob becomes visible
	// once Close returns without error.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a small blob in one shot.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names under the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to stored data.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a streaming write handle. Closing commits the blob.
type WritableBlob interface {
	io.WriteCloser
}
