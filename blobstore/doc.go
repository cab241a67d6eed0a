// Package blobstore moves whole shard sets between the local disk and an
// object store.
//
// An Archive fetches a set before a run and pushes the updated files
// afterwards. The transfer logic is shared; backends only implement the
// ObjectStore surface:
//
//	type ObjectStore interface {
//	    Get(ctx, key) (io.ReadCloser, error)
//	    Put(ctx, key, r, size) error
//	}
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local filesystem
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 via the upload manager
//   - minio.Store: MinIO and other S3-compatible services
//
// Uploads can be rate-limited with WithUploadRate.
package blobstore
