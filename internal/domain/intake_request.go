package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnknownWorkType = errors.New("work type must be one of: full-time, part-time, contract, remote, hybrid")
	ErrUnknownPosition = errors.New("desired position is not an open position")
)

// UpdateFieldsRequest carries scalar form widgets. Omitted fields are left untouched;
// an empty string clears a field.
type UpdateFieldsRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100,valid_name"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100,valid_name"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,calendar_date"`
	Gender      *string `json:"gender" binding:"omitempty,max=50"`
	Nationality *string `json:"nationality" binding:"omitempty,max=100"`

	Email     *string `json:"email" binding:"omitempty,max=254"`
	Phone     *string `json:"phone" binding:"omitempty,valid_phone"`
	Address   *string `json:"address" binding:"omitempty,max=255"`
	City      *string `json:"city" binding:"omitempty,max=100"`
	State     *string `json:"state" binding:"omitempty,max=100"`
	ZipCode   *string `json:"zip_code" binding:"omitempty,max=20"`
	LinkedIn  *string `json:"linkedin" binding:"omitempty,max=255"`
	Portfolio *string `json:"portfolio" binding:"omitempty,max=255"`

	DesiredPosition  *string `json:"desired_position" binding:"omitempty,position_id"`
	ExpectedSalary   *string `json:"expected_salary" binding:"omitempty,max=100,no_emoji"`
	AvailabilityDate *string `json:"availability_date" binding:"omitempty,calendar_date,not_past_date"`
	WorkType         *string `json:"work_type" binding:"omitempty,oneof=full-time part-time contract remote hybrid"`
}

// ToPatch converts the request to a RecordPatch. Values are stored as typed;
// the step predicates decide what counts as filled in.
func (r *UpdateFieldsRequest) ToPatch() (RecordPatch, error) {
	var p RecordPatch
	setString(&p.FirstName, r.FirstName)
	setString(&p.LastName, r.LastName)
	setString(&p.Gender, r.Gender)
	setString(&p.Nationality, r.Nationality)
	setString(&p.Email, r.Email)
	setString(&p.Phone, r.Phone)
	setString(&p.Address, r.Address)
	setString(&p.City, r.City)
	setString(&p.State, r.State)
	setString(&p.ZipCode, r.ZipCode)
	setString(&p.LinkedIn, r.LinkedIn)
	setString(&p.Portfolio, r.Portfolio)
	setString(&p.ExpectedSalary, r.ExpectedSalary)

	// an empty value clears the field; anything else must be a known id
	if r.DesiredPosition != nil {
		if _, ok := FindPosition(*r.DesiredPosition); *r.DesiredPosition != "" && !ok {
			return RecordPatch{}, ErrUnknownPosition
		}
		p.DesiredPosition = Set(*r.DesiredPosition)
	}
	if r.WorkType != nil {
		wt := WorkType(*r.WorkType)
		if wt != "" && !wt.Valid() {
			return RecordPatch{}, ErrUnknownWorkType
		}
		p.WorkType = Set(wt)
	}

	var err error
	if p.DateOfBirth, err = dateChange(r.DateOfBirth); err != nil {
		return RecordPatch{}, err
	}
	if p.AvailabilityDate, err = dateChange(r.AvailabilityDate); err != nil {
		return RecordPatch{}, err
	}
	return p, nil
}

// Empty reports whether the request names no field at all
func (r *UpdateFieldsRequest) Empty() bool {
	return *r == UpdateFieldsRequest{}
}

func setString(dst *Change[string], v *string) {
	if v != nil {
		*dst = Set(*v)
	}
}

func dateChange(v *string) (Change[*Date], error) {
	if v == nil {
		return Change[*Date]{}, nil
	}
	if strings.TrimSpace(*v) == "" {
		return Set[*Date](nil), nil
	}
	d, err := ParseDate(*v)
	if err != nil {
		return Change[*Date]{}, err
	}
	return Set(&d), nil
}

type UpdateExperienceRequest struct {
	Company     *string `json:"company" binding:"omitempty,max=150"`
	Position    *string `json:"position" binding:"omitempty,max=150"`
	StartDate   *string `json:"start_date" binding:"omitempty,year_month"`
	EndDate     *string `json:"end_date" binding:"omitempty,year_month"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (r *UpdateExperienceRequest) ToChanges() ExperienceChanges {
	return ExperienceChanges{
		Company:     r.Company,
		Position:    r.Position,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Description: r.Description,
	}
}

type SetCurrentRequest struct {
	Current *bool `json:"current" binding:"required"`
}

type UpdateEducationRequest struct {
	Institution    *string `json:"institution" binding:"omitempty,max=150"`
	Degree         *string `json:"degree" binding:"omitempty,max=100"`
	Field          *string `json:"field" binding:"omitempty,max=150"`
	GraduationYear *string `json:"graduation_year" binding:"omitempty,grad_year"`
	GPA            *string `json:"gpa" binding:"omitempty,max=20"`
}

func (r *UpdateEducationRequest) ToChanges() EducationChanges {
	return EducationChanges{
		Institution:    r.Institution,
		Degree:         r.Degree,
		Field:          r.Field,
		GraduationYear: r.GraduationYear,
		GPA:            r.GPA,
	}
}

type SkillRequest struct {
	Skill string `json:"skill" binding:"required,max=100"`
}

type LanguageRequest struct {
	Language    string `json:"language" binding:"required,max=100"`
	Proficiency string `json:"proficiency" binding:"required,oneof=beginner intermediate advanced native"`
}

type RemoveLanguageRequest struct {
	Language string `json:"language" binding:"required,max=100"`
}
