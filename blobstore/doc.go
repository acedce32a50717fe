// Package blobstore is the storage layer for SequenceFile containers.
//
// A container is addressed by name within a BlobStore. Readers open a Blob and
// stream it front to back; writers Create a WritableBlob and Close it to
// publish the result, or Abort it to discard a partial write.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, mmap for reads, internal/fs for writes
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Usage
//
//	store := blobstore.NewLocalStore("/data")
//
//	w, err := store.Create(ctx, "centroids")
//	if err != nil { ... }
//	if _, err := w.Write(payload); err != nil {
//	    _ = w.Abort()
//	    return err
//	}
//	if err := w.Close(); err != nil { ... }
//
//	b, err := store.Open(ctx, "centroids")
//	if err != nil { ... }
//	defer b.Close()
//	r, err := blobstore.NewReader(ctx, b)
package blobstore
