package storage

import (
	"context"
	"fmt"

	"go-job-intake/config"
	"go-job-intake/internal/domain"
	s3storage "go-job-intake/pkg/storage"
)

// NewUploader builds the document store named by STORAGE_PROVIDER ("s3" or
// "cloudinary"). The returned probe is nil when the provider has no cheap
// reachability check.
func NewUploader(ctx context.Context, cfg *config.Config) (domain.DocumentUploader, func(context.Context) error, error) {
	switch cfg.StorageProvider {
	case "cloudinary":
		uploader, err := NewCloudinaryUploader(cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySecret)
		return uploader, nil, err
	case "s3", "":
		client, err := s3storage.NewS3Client(ctx, s3storage.S3ClientConfig{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, nil, err
		}
		probe := func(ctx context.Context) error {
			return s3storage.CheckBucket(ctx, client, cfg.S3Bucket)
		}
		return NewS3Uploader(client, cfg.S3Bucket), probe, nil
	}
	return nil, nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
}
