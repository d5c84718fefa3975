// Package minio stores run reports in a bucket of any S3-compatible server
// reachable through minio-go: MinIO itself, Ceph RGW, SeaweedFS or Garage.
//
// NewFromEnv reads MINIO_ACCESS_KEY and MINIO_SECRET_KEY, falling back to
// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY:
//
//	store, err := minio.NewFromEnv("nas.lan:9000", "burn-in", "usb-sticks", true)
//
// Callers holding a configured *minio.Client use NewStore instead.
package minio
