package intake_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-job-intake/internal/domain"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, req domain.UploadRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, payload *domain.ApplicationPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockApplicationRepo) ListSubmitted(ctx context.Context, since time.Time, limit int) ([]domain.SubmittedApplication, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmittedApplication), args.Error(1)
}

// stubSubmitter returns a fixed result and records what it was given
type stubSubmitter struct {
	result domain.SubmissionResult
	calls  []domain.ApplicationRecord
}

func (s *stubSubmitter) Submit(_ context.Context, rec domain.ApplicationRecord) domain.SubmissionResult {
	s.calls = append(s.calls, rec)
	return s.result
}

func resumeDoc() *domain.Document {
	return &domain.Document{
		Name:     "Jane Doe CV.pdf",
		Size:     9,
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4\n"),
	}
}

func coverLetterDoc() *domain.Document {
	return &domain.Document{
		Name:     "Cover Letter.pdf",
		Size:     9,
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4\n"),
	}
}

// completeRecord satisfies every step predicate
func completeRecord() domain.ApplicationRecord {
	rec := domain.NewApplicationRecord()
	rec.FirstName = "Jane"
	rec.LastName = "Doe"
	rec.DateOfBirth = domain.DatePtr(domain.Date{Year: 1992, Month: time.May, Day: 14})
	rec.Gender = "female"
	rec.Email = "jane@example.com"
	rec.Phone = "+1 555 000 0000"
	rec.Address = "1 Main St"
	rec.City = "Toronto"
	rec.State = "ON"
	rec.ZipCode = "M5V 2T6"
	rec.LinkedIn = "https://linkedin.com/in/jane"
	rec.TechnicalSkills = []string{"Go", "PostgreSQL"}
	rec.Resume = resumeDoc()
	rec.DesiredPosition = "backend-developer"
	rec.WorkType = domain.WorkTypeRemote
	return rec
}

// fillPatch sets every field of rec that completeRecord fills
func fillPatch(rec domain.ApplicationRecord) domain.RecordPatch {
	return domain.RecordPatch{
		FirstName:       domain.Set(rec.FirstName),
		LastName:        domain.Set(rec.LastName),
		DateOfBirth:     domain.Set(rec.DateOfBirth),
		Gender:          domain.Set(rec.Gender),
		Email:           domain.Set(rec.Email),
		Phone:           domain.Set(rec.Phone),
		Address:         domain.Set(rec.Address),
		City:            domain.Set(rec.City),
		State:           domain.Set(rec.State),
		ZipCode:         domain.Set(rec.ZipCode),
		LinkedIn:        domain.Set(rec.LinkedIn),
		TechnicalSkills: domain.Set(rec.TechnicalSkills),
		Resume:          domain.Set(rec.Resume),
		DesiredPosition: domain.Set(rec.DesiredPosition),
		WorkType:        domain.Set(rec.WorkType),
	}
}
