// Package intake holds the multi-step application form engine: field storage,
// per-step validation, navigation, submission and the controller tying them together.
package intake

import (
	"strings"

	"go-job-intake/internal/domain"
)

type stepDef struct {
	id    domain.StepID
	title string
	valid func(domain.ApplicationRecord) bool
}

var steps = []stepDef{
	{id: domain.StepPersonalInfo, title: "Personal Info", valid: personalInfoValid},
	{id: domain.StepContactInfo, title: "Contact Info", valid: contactInfoValid},
	{id: domain.StepExperience, title: "Experience", valid: always},
	{id: domain.StepEducation, title: "Education", valid: always},
	{id: domain.StepSkills, title: "Skills", valid: always},
	{id: domain.StepDocuments, title: "Documents", valid: documentsValid},
	{id: domain.StepReview, title: "Review", valid: reviewValid},
}

// StepCount is the number of steps in the form
var StepCount = len(steps)

// ReviewStep is the index of the last step, where submission happens
var ReviewStep = len(steps) - 1

// StepAt returns the id and title of the step at index, or false when out of range
func StepAt(index int) (domain.StepID, string, bool) {
	if index < 0 || index >= len(steps) {
		return "", "", false
	}
	return steps[index].id, steps[index].title, true
}

// IsStepValid evaluates the predicate for one step. It is pure and never mutates rec.
func IsStepValid(index int, rec domain.ApplicationRecord) bool {
	if index < 0 || index >= len(steps) {
		return false
	}
	return steps[index].valid(rec)
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

func always(domain.ApplicationRecord) bool { return true }

func personalInfoValid(rec domain.ApplicationRecord) bool {
	return filled(rec.FirstName) &&
		filled(rec.LastName) &&
		rec.DateOfBirth != nil &&
		rec.Gender != ""
}

func contactInfoValid(rec domain.ApplicationRecord) bool {
	return filled(rec.Email) &&
		filled(rec.Phone) &&
		filled(rec.Address) &&
		filled(rec.City) &&
		filled(rec.State) &&
		filled(rec.ZipCode) &&
		filled(rec.LinkedIn)
}

func documentsValid(rec domain.ApplicationRecord) bool {
	return rec.Resume != nil || rec.CoverLetter != nil
}

func reviewValid(rec domain.ApplicationRecord) bool {
	return personalInfoValid(rec) && contactInfoValid(rec)
}
