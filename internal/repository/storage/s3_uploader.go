package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"go-job-intake/internal/domain"
)

// objectPutter is the subset of *s3.Client used here
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Uploader struct {
	client objectPutter
	// bucket overrides the bucket named in each request when set
	bucket string
}

// NewS3Uploader stores documents in an S3-compatible bucket
func NewS3Uploader(client *s3.Client, bucket string) domain.DocumentUploader {
	return &s3Uploader{client: client, bucket: bucket}
}

// Upload writes the object and returns its key within the bucket
func (u *s3Uploader) Upload(ctx context.Context, req domain.UploadRequest) (string, error) {
	bucket := req.Bucket
	if u.bucket != "" {
		bucket = u.bucket
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(req.ObjectKey),
		Body:          bytes.NewReader(req.Content),
		ContentType:   aws.String(req.MIMEType),
		ContentLength: aws.Int64(int64(len(req.Content))),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", bucket, req.ObjectKey, err)
	}
	return req.ObjectKey, nil
}
