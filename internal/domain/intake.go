package domain

import (
	"context"
	"time"
)

// StepID names one page of the wizard
type StepID string

const (
	StepPersonalInfo StepID = "personal-info"
	StepContactInfo  StepID = "contact-info"
	StepExperience   StepID = "experience"
	StepEducation    StepID = "education"
	StepSkills       StepID = "skills"
	StepDocuments    StepID = "documents"
	StepReview       StepID = "review"
)

type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionInProgress SubmissionState = "in_progress"
	SubmissionSucceeded  SubmissionState = "succeeded"
	SubmissionFailed     SubmissionState = "failed"
)

// SubmissionStatus is the user-visible state of the latest submission attempt
type SubmissionStatus struct {
	State   SubmissionState   `json:"state"`
	Message string            `json:"message,omitempty"`
	Result  *SubmissionResult `json:"result,omitempty"`
}

// StepSummary drives the progress badges
type StepSummary struct {
	ID      StepID `json:"id"`
	Title   string `json:"title"`
	Valid   bool   `json:"valid"`
	Current bool   `json:"current"`
}

// FormView is everything a presentation layer needs to render the form
type FormView struct {
	Step       StepID            `json:"step"`
	StepIndex  int               `json:"step_index"`
	StepCount  int               `json:"step_count"`
	StepValid  bool              `json:"step_valid"`
	Progress   float64           `json:"progress"`
	CanAdvance bool              `json:"can_advance"`
	CanRetreat bool              `json:"can_retreat"`
	CanSubmit  bool              `json:"can_submit"`
	Steps      []StepSummary     `json:"steps"`
	Status     SubmissionStatus  `json:"status"`
	Record     ApplicationRecord `json:"record"`
}

// SessionView is returned when a session starts
type SessionView struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	View      *FormView `json:"view"`
}

// SkillKind selects the technical or soft skill list
type SkillKind string

const (
	SkillTechnical SkillKind = "technical"
	SkillSoft      SkillKind = "soft"
)

func (k SkillKind) Valid() bool {
	return k == SkillTechnical || k == SkillSoft
}

// ExperienceChanges updates selected fields of one experience entry
type ExperienceChanges struct {
	Company     *string
	Position    *string
	StartDate   *string
	EndDate     *string
	Description *string
}

// EducationChanges updates selected fields of one education entry
type EducationChanges struct {
	Institution    *string
	Degree         *string
	Field          *string
	GraduationYear *string
	GPA            *string
}

// IntakeUsecase manages concurrent form sessions
type IntakeUsecase interface {
	StartSession(ctx context.Context) (*SessionView, error)
	GetView(ctx context.Context, sessionID string) (*FormView, error)

	UpdateFields(ctx context.Context, sessionID string, patch RecordPatch) (*FormView, error)

	AddExperience(ctx context.Context, sessionID string) (*FormView, error)
	UpdateExperience(ctx context.Context, sessionID, entryID string, changes ExperienceChanges) (*FormView, error)
	SetExperienceCurrent(ctx context.Context, sessionID, entryID string, current bool) (*FormView, error)
	RemoveExperience(ctx context.Context, sessionID, entryID string) (*FormView, error)

	AddEducation(ctx context.Context, sessionID string) (*FormView, error)
	UpdateEducation(ctx context.Context, sessionID, entryID string, changes EducationChanges) (*FormView, error)
	RemoveEducation(ctx context.Context, sessionID, entryID string) (*FormView, error)

	AddSkill(ctx context.Context, sessionID string, kind SkillKind, skill string) (*FormView, error)
	RemoveSkill(ctx context.Context, sessionID string, kind SkillKind, skill string) (*FormView, error)
	AddLanguage(ctx context.Context, sessionID, language string, proficiency Proficiency) (*FormView, error)
	RemoveLanguage(ctx context.Context, sessionID, language string) (*FormView, error)

	AttachDocument(ctx context.Context, sessionID string, kind DocumentKind, doc *Document) (*FormView, error)
	RemoveDocument(ctx context.Context, sessionID string, kind DocumentKind) (*FormView, error)

	Next(ctx context.Context, sessionID string) (*FormView, error)
	Previous(ctx context.Context, sessionID string) (*FormView, error)

	// Submit starts a submission and returns immediately; poll GetView for the outcome
	Submit(ctx context.Context, sessionID string) (*FormView, error)
	Restart(ctx context.Context, sessionID string) (*FormView, error)
}

// ExportUsecase renders submitted applications for back-office review
type ExportUsecase interface {
	ExportApplications(ctx context.Context, since time.Time) (data []byte, filename string, err error)
}
