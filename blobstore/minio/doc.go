// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible servers such as Ceph,
// SeaweedFS and Garage, without the AWS SDK.
//
// # Basic Usage
//
//	store, err := minioblob.NewFromEnv("my-bucket", "ZTE_Demo/")
//
// or with an explicit client:
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	store := minioblob.NewStore(client, "my-bucket", "ZTE_Demo/")
//
// Uploads stream through an io.Pipe into PutObject; Abort fails the pipe so
// the object is never created.
package minio
