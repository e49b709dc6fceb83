// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("snapshots/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	src := directory.NewSnapshot(store, "users/latest.snap")
//
// # Features
//
//   - Uploads through the SDK upload manager (multipart for large blobs)
//   - CRC32C checksums on upload
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
