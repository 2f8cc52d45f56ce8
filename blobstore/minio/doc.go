// Package minio provides a blobstore.Store backed by MinIO or any
// S3-compatible object storage.
//
// Use this backend to persist engine state off-device, e.g. to mirror a
// fleet of sensor nodes into a shared bucket:
//
//	client, _ := minio.New("play.min.io", &minio.Options{...})
//	bs := miniostore.NewStore(client, "sdm-state", "node-42/")
package minio
