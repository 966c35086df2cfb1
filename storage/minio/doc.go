// Package minio implements the storage.ObjectStore interface backed by an
// S3-compatible MinIO bucket. Ingestion status is stored as an object tag.
package minio
