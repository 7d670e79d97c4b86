package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"go-job-intake/internal/domain"
)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

type cloudinaryUploader struct {
	api cloudinaryAPI
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (domain.DocumentUploader, error) {
	if cloudName == "" {
		return nil, errors.New("cloudinary cloud_name is not configured")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}
	return &cloudinaryUploader{api: &cld.Upload}, nil
}

// Upload stores the document as a raw asset. The bucket becomes the top-level
// folder so paths match the S3 layout; the returned path is the public id.
func (u *cloudinaryUploader) Upload(ctx context.Context, req domain.UploadRequest) (string, error) {
	dir, name := path.Split(req.ObjectKey)
	folder := strings.TrimSuffix(path.Join(req.Bucket, dir), "/")

	result, err := u.api.Upload(ctx, bytes.NewReader(req.Content), uploader.UploadParams{
		PublicID:     name,
		Folder:       folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return result.PublicID, nil
}
