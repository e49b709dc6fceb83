// Package blobstore provides storage abstraction for user snapshots.
//
// Store is the interface for reading and writing whole blobs by name. Blobs are
// small (a compressed user list) and are always read and written whole.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic rename on Put
//   - MemoryStore: in-process map, for tests and embedding
//   - CachingStore: read-through LRU in front of any Store
//   - s3.Store: Amazon S3 via aws-sdk-go-v2 and the upload manager
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
//	type Store interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error     // Atomic write
//	    Delete(ctx, name) error        // Missing blobs are not an error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Get must return an error satisfying errors.Is(err, ErrNotFound) for missing
// blobs.
package blobstore
