package intake

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"go-job-intake/internal/domain"
	"go-job-intake/pkg/logger"
	"go-job-intake/pkg/storage"
)

var linkedInPattern = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/.*$`)

const (
	msgIncomplete = "Please complete all required fields before submitting"
	msgLinkedIn   = "Please enter a valid LinkedIn URL"
)

// Submitter turns a record snapshot into exactly one SubmissionResult
type Submitter interface {
	Submit(ctx context.Context, rec domain.ApplicationRecord) domain.SubmissionResult
}

// SubmissionOrchestrator validates, uploads documents and persists a record,
// strictly in that order and stopping at the first failure.
type SubmissionOrchestrator struct {
	uploader domain.DocumentUploader
	repo     domain.ApplicationRepository
	bucket   string
	now      func() time.Time
}

type OrchestratorOption func(*SubmissionOrchestrator)

// WithBucket overrides the documents bucket
func WithBucket(bucket string) OrchestratorOption {
	return func(o *SubmissionOrchestrator) { o.bucket = bucket }
}

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *SubmissionOrchestrator) { o.now = now }
}

func NewSubmissionOrchestrator(uploader domain.DocumentUploader, repo domain.ApplicationRepository, opts ...OrchestratorOption) *SubmissionOrchestrator {
	o := &SubmissionOrchestrator{
		uploader: uploader,
		repo:     repo,
		bucket:   domain.DocumentsBucket,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *SubmissionOrchestrator) Submit(ctx context.Context, rec domain.ApplicationRecord) (result domain.SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Submission panicked", zap.Any("panic", r), zap.Stack("stack"))
			result = domain.SubmissionResult{
				Outcome: domain.OutcomeUnexpectedFailure,
				Message: fmt.Sprint(r),
			}
		}
	}()

	// All pure checks run before any side effect
	if !IsStepValid(ReviewStep, rec) {
		return domain.SubmissionResult{Outcome: domain.OutcomeValidationRejected, Message: msgIncomplete}
	}
	if rec.LinkedIn != "" && !linkedInPattern.MatchString(rec.LinkedIn) {
		return domain.SubmissionResult{Outcome: domain.OutcomeValidationRejected, Field: "linkedin", Message: msgLinkedIn}
	}

	submittedAt := o.now()

	resumePath, err := o.upload(ctx, rec.Resume, domain.DocumentResume, submittedAt)
	if err != nil {
		return uploadFailed(domain.DocumentResume, err)
	}
	coverLetterPath, err := o.upload(ctx, rec.CoverLetter, domain.DocumentCoverLetter, submittedAt)
	if err != nil {
		return uploadFailed(domain.DocumentCoverLetter, err)
	}

	payload := BuildPayload(rec, resumePath, coverLetterPath)
	recordID, err := o.repo.Create(ctx, &payload)
	if err != nil {
		// uploaded objects are intentionally left in place
		logger.Log.Warn("Application insert failed; uploaded documents are orphaned",
			zap.Error(err),
			zap.Stringp("resume_path", resumePath),
			zap.Stringp("cover_letter_path", coverLetterPath),
		)
		return domain.SubmissionResult{Outcome: domain.OutcomePersistFailed, Message: err.Error()}
	}

	logger.Log.Info("Application submitted", zap.String("record_id", recordID))
	return domain.SubmissionResult{Outcome: domain.OutcomeSuccess, RecordID: recordID}
}

// upload stores one document and returns its storage path, or nil when doc is absent
func (o *SubmissionOrchestrator) upload(ctx context.Context, doc *domain.Document, kind domain.DocumentKind, at time.Time) (*string, error) {
	if doc == nil {
		return nil, nil
	}
	path, err := o.uploader.Upload(ctx, domain.UploadRequest{
		Content:   doc.Content,
		MIMEType:  doc.MIMEType,
		Bucket:    o.bucket,
		ObjectKey: storage.ObjectKey(domain.FolderFor(kind), at, doc.Name),
	})
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New("storage returned an empty path")
	}
	return &path, nil
}

func uploadFailed(kind domain.DocumentKind, err error) domain.SubmissionResult {
	logger.Log.Warn("Document upload failed", zap.String("document", string(kind)), zap.Error(err))
	return domain.SubmissionResult{
		Outcome:  domain.OutcomeUploadFailed,
		Document: kind,
		Message:  err.Error(),
	}
}
