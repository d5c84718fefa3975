package s3

import "github.com/aws/aws-sdk-go-v2/feature/s3/manager"

// UploadConfig tunes the transfer manager. Reports are usually a few
// kilobytes and go up in a single PutObject; multipart only starts above
// PartSize.
type UploadConfig struct {
	PartSize    int64 // bytes, at least manager.MinUploadPartSize
	Concurrency int   // parts in flight

	// Checksum asks S3 to verify a CRC32C of every upload.
	Checksum bool
}

// DefaultUploadConfig returns 8 MiB parts, the SDK's concurrency and
// checksums on.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:    8 << 20,
		Concurrency: manager.DefaultUploadConcurrency,
		Checksum:    true,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = max(cfg.PartSize, manager.MinUploadPartSize)
		if cfg.Concurrency > 0 {
			u.Concurrency = cfg.Concurrency
		}
	})
}
