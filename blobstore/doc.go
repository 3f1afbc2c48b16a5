// Package blobstore abstracts where preference-vector snapshots live.
//
// # Backends
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with atomic temp-file writes
//   - s3.Store: AWS S3
//   - minio.Store: MinIO and other S3-compatible object storage
//
// Snapshots are small, so the interface deals in whole blobs; see the store
// package for the snapshot format layered on top.
package blobstore
