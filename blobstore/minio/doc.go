// Package minio provides a MinIO backend for the blobstore archive. It
// works against any S3-compatible service reachable through the MinIO
// client.
package minio
