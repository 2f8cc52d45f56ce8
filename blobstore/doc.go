// Package blobstore abstracts the block device the memory engine
// persists its state, configuration and libraries to.
//
// Backends:
//   - LocalStore: a directory on the local filesystem (SD card mount,
//     flash partition, plain disk).
//   - MemoryStore: in-memory, for tests.
//   - blobstore/minio: MinIO and S3-compatible object storage.
//   - blobstore/s3: AWS S3 via aws-sdk-go-v2.
package blobstore
