// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("ZTE_Demo/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	w, err := store.Create(ctx, "SKM_Iterations/centroids")
//
// # Features
//
//   - Range reads for sequential container scans
//   - CRC32C checksums on every upload
//   - Multipart uploads for objects of at least one part size
//   - Automatic pagination for listing
package s3
