package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"go-job-intake/internal/domain"
)

// dryRunUploader accepts every document and echoes the object key
type dryRunUploader struct{}

func (dryRunUploader) Upload(_ context.Context, req domain.UploadRequest) (string, error) {
	return req.ObjectKey, nil
}

// dryRunRepository prints the row that would be inserted
type dryRunRepository struct {
	out io.Writer
}

func (r dryRunRepository) Create(_ context.Context, payload *domain.ApplicationPayload) (string, error) {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", err
	}
	return "dry-run", nil
}

func (dryRunRepository) ListSubmitted(context.Context, time.Time, int) ([]domain.SubmittedApplication, error) {
	return nil, nil
}
