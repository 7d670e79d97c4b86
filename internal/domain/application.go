package domain

import "slices"

// WorkType is the engagement a candidate is looking for
type WorkType string

const (
	WorkTypeFullTime WorkType = "full-time"
	WorkTypePartTime WorkType = "part-time"
	WorkTypeContract WorkType = "contract"
	WorkTypeRemote   WorkType = "remote"
	WorkTypeHybrid   WorkType = "hybrid"
)

var WorkTypes = []WorkType{WorkTypeFullTime, WorkTypePartTime, WorkTypeContract, WorkTypeRemote, WorkTypeHybrid}

func (w WorkType) Valid() bool {
	return slices.Contains(WorkTypes, w)
}

// Proficiency is the self-assessed level for a spoken language
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyNative       Proficiency = "native"
)

var Proficiencies = []Proficiency{ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyNative}

func (p Proficiency) Valid() bool {
	return slices.Contains(Proficiencies, p)
}

// ExperienceEntry is one row of work history.
// StartDate and EndDate are year-month strings ("2023-04"); EndDate is empty while Current is set.
type ExperienceEntry struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationEntry is one row of education history
type EducationEntry struct {
	ID             string `json:"id"`
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationYear string `json:"graduation_year"`
	GPA            string `json:"gpa"`
}

type LanguageEntry struct {
	ID          string      `json:"id"`
	Language    string      `json:"language"`
	Proficiency Proficiency `json:"proficiency"`
}

// DocumentKind identifies which document slot a file occupies
type DocumentKind string

const (
	DocumentResume      DocumentKind = "resume"
	DocumentCoverLetter DocumentKind = "cover_letter"
)

func (k DocumentKind) Valid() bool {
	return k == DocumentResume || k == DocumentCoverLetter
}

// Label is the human readable name used in messages
func (k DocumentKind) Label() string {
	if k == DocumentCoverLetter {
		return "cover letter"
	}
	return "resume"
}

// Document is a local file chosen by the applicant but not yet uploaded
type Document struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mime_type"`
	Content  []byte `json:"-"`
}

// ApplicationRecord is the in-progress form state for one applicant
type ApplicationRecord struct {
	// Personal information
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth *Date  `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`

	// Contact information
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`

	Experiences []ExperienceEntry `json:"experiences"`
	Education   []EducationEntry  `json:"education"`

	TechnicalSkills []string        `json:"technical_skills"`
	SoftSkills      []string        `json:"soft_skills"`
	Languages       []LanguageEntry `json:"languages"`

	Resume      *Document `json:"resume"`
	CoverLetter *Document `json:"cover_letter"`

	DesiredPosition  string   `json:"desired_position"`
	ExpectedSalary   string   `json:"expected_salary"`
	AvailabilityDate *Date    `json:"availability_date"`
	WorkType         WorkType `json:"work_type"`
}

// NewApplicationRecord returns the initial empty record
func NewApplicationRecord() ApplicationRecord {
	return ApplicationRecord{
		Experiences:     []ExperienceEntry{},
		Education:       []EducationEntry{},
		TechnicalSkills: []string{},
		SoftSkills:      []string{},
		Languages:       []LanguageEntry{},
	}
}

// Clone returns a copy that shares no mutable state with r.
// Document content is treated as immutable once attached and is shared.
func (r ApplicationRecord) Clone() ApplicationRecord {
	out := r
	out.DateOfBirth = r.DateOfBirth.clone()
	out.AvailabilityDate = r.AvailabilityDate.clone()
	out.Experiences = cloneSlice(r.Experiences)
	out.Education = cloneSlice(r.Education)
	out.TechnicalSkills = cloneSlice(r.TechnicalSkills)
	out.SoftSkills = cloneSlice(r.SoftSkills)
	out.Languages = cloneSlice(r.Languages)
	if r.Resume != nil {
		doc := *r.Resume
		out.Resume = &doc
	}
	if r.CoverLetter != nil {
		doc := *r.CoverLetter
		out.CoverLetter = &doc
	}
	return out
}

// Document returns the file attached to the given slot, or nil
func (r ApplicationRecord) Document(kind DocumentKind) *Document {
	switch kind {
	case DocumentResume:
		return r.Resume
	case DocumentCoverLetter:
		return r.CoverLetter
	}
	return nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
