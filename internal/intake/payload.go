package intake

import "go-job-intake/internal/domain"

// BuildPayload projects a record onto the persisted row. Scalars are copied
// verbatim, dates become YYYY-MM-DD or null, and documents are replaced by
// the storage paths they were uploaded to (null when none was supplied).
func BuildPayload(rec domain.ApplicationRecord, resumePath, coverLetterPath *string) domain.ApplicationPayload {
	rec = rec.Clone()
	return domain.ApplicationPayload{
		FirstName:           rec.FirstName,
		LastName:            rec.LastName,
		DateOfBirth:         dateString(rec.DateOfBirth),
		Gender:              rec.Gender,
		Nationality:         rec.Nationality,
		Email:               rec.Email,
		Phone:               rec.Phone,
		Address:             rec.Address,
		City:                rec.City,
		State:               rec.State,
		ZipCode:             rec.ZipCode,
		LinkedIn:            rec.LinkedIn,
		Portfolio:           rec.Portfolio,
		Experiences:         rec.Experiences,
		Education:           rec.Education,
		TechnicalSkills:     rec.TechnicalSkills,
		SoftSkills:          rec.SoftSkills,
		Languages:           rec.Languages,
		ResumeFilename:      resumePath,
		CoverLetterFilename: coverLetterPath,
		DesiredPosition:     rec.DesiredPosition,
		ExpectedSalary:      rec.ExpectedSalary,
		AvailabilityDate:    dateString(rec.AvailabilityDate),
		WorkType:            rec.WorkType,
	}
}

func dateString(d *domain.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
