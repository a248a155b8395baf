// Package blobstore abstracts where packed measurement-set archives are
// kept.
//
// The core package ships a local-filesystem store (mmap-backed reads,
// atomic temp-and-rename writes) and an in-memory store for tests. The s3
// and minio subpackages add object-storage backends behind the same
// interface. Implementations must be safe for concurrent use.
package blobstore
