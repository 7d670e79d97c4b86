package domain

import (
	"context"
	"fmt"
	"time"
)

// Storage layout for uploaded documents
const (
	DocumentsBucket    = "job-documents"
	ResumeFolder       = "resumes"
	CoverLetterFolder  = "cover_letters"
	ApplicationsTable  = "job_applications"
	SubmittedEventType = "job_application.submitted"
)

// FolderFor returns the bucket folder a document kind is stored under
func FolderFor(kind DocumentKind) string {
	if kind == DocumentCoverLetter {
		return CoverLetterFolder
	}
	return ResumeFolder
}

type SubmissionOutcome string

const (
	OutcomeSuccess            SubmissionOutcome = "success"
	OutcomeValidationRejected SubmissionOutcome = "validation_rejected"
	OutcomeUploadFailed       SubmissionOutcome = "upload_failed"
	OutcomePersistFailed      SubmissionOutcome = "persist_failed"
	OutcomeUnexpectedFailure  SubmissionOutcome = "unexpected_failure"
)

// SubmissionResult is the single outcome of one submission attempt
type SubmissionResult struct {
	Outcome  SubmissionOutcome `json:"outcome"`
	Field    string            `json:"field,omitempty"`    // ValidationRejected
	Document DocumentKind      `json:"document,omitempty"` // UploadFailed
	Message  string            `json:"message,omitempty"`
	RecordID string            `json:"record_id,omitempty"` // Success
}

func (r SubmissionResult) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// UserMessage renders the result as one line suitable for the applicant
func (r SubmissionResult) UserMessage() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return "Application submitted successfully!"
	case OutcomeValidationRejected:
		return r.Message
	case OutcomeUploadFailed:
		return fmt.Sprintf("Failed to upload %s: %s", r.Document.Label(), r.Message)
	case OutcomePersistFailed:
		return "Failed to save application: " + r.Message
	default:
		if r.Message == "" {
			return "An unexpected error occurred. Please try again."
		}
		return "An unexpected error occurred: " + r.Message
	}
}

// ApplicationPayload is the row written to job_applications.
// Field names are part of the storage contract.
type ApplicationPayload struct {
	FirstName           string            `json:"first_name"`
	LastName            string            `json:"last_name"`
	DateOfBirth         *string           `json:"date_of_birth"`
	Gender              string            `json:"gender"`
	Nationality         string            `json:"nationality"`
	Email               string            `json:"email"`
	Phone               string            `json:"phone"`
	Address             string            `json:"address"`
	City                string            `json:"city"`
	State               string            `json:"state"`
	ZipCode             string            `json:"zip_code"`
	LinkedIn            string            `json:"linkedin"`
	Portfolio           string            `json:"portfolio"`
	Experiences         []ExperienceEntry `json:"experiences"`
	Education           []EducationEntry  `json:"education"`
	TechnicalSkills     []string          `json:"technical_skills"`
	SoftSkills          []string          `json:"soft_skills"`
	Languages           []LanguageEntry   `json:"languages"`
	ResumeFilename      *string           `json:"resume_filename"`
	CoverLetterFilename *string           `json:"cover_letter_filename"`
	DesiredPosition     string            `json:"desired_position"`
	ExpectedSalary      string            `json:"expected_salary"`
	AvailabilityDate    *string           `json:"availability_date"`
	WorkType            WorkType          `json:"work_type"`
}

// SubmittedApplication is a persisted payload as read back for export
type SubmittedApplication struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ApplicationPayload
}

// UploadRequest describes one object to place in document storage
type UploadRequest struct {
	Content   []byte
	MIMEType  string
	Bucket    string
	ObjectKey string
}

// DocumentUploader stores a document and returns the path it was stored at
type DocumentUploader interface {
	Upload(ctx context.Context, req UploadRequest) (string, error)
}

// ApplicationRepository persists submitted applications
type ApplicationRepository interface {
	Create(ctx context.Context, payload *ApplicationPayload) (string, error)
	ListSubmitted(ctx context.Context, since time.Time, limit int) ([]SubmittedApplication, error)
}

// ApplicationSubmittedEvent is announced after a record has been persisted
type ApplicationSubmittedEvent struct {
	Type            string    `json:"type"`
	RecordID        string    `json:"record_id"`
	SessionID       string    `json:"session_id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	DesiredPosition string    `json:"desired_position"`
	WorkType        WorkType  `json:"work_type"`
	HasCoverLetter  bool      `json:"has_cover_letter"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// SubmissionPublisher announces accepted applications to downstream consumers
type SubmissionPublisher interface {
	PublishSubmitted(ctx context.Context, event ApplicationSubmittedEvent) error
}
