package intake

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"

	"go-job-intake/internal/domain"
)

var (
	ErrEntryNotFound       = errors.New("entry not found")
	ErrEmptyValue          = errors.New("value must not be empty")
	ErrDuplicateSkill      = errors.New("skill already added")
	ErrDuplicateLanguage   = errors.New("language already added")
	ErrInvalidProficiency  = errors.New("invalid proficiency")
	ErrUnknownSkillKind    = errors.New("unknown skill kind")
	ErrUnknownDocumentKind = errors.New("unknown document kind")
	ErrEndDateWhileCurrent = errors.New("end date cannot be set while the position is current")
)

// NewEntryID generates ids for new collection entries
var NewEntryID = uuid.NewString

// Command computes a patch from a snapshot of the record. The controller
// merges the returned patch in one step, so a command is all-or-nothing.
type Command func(rec domain.ApplicationRecord) (domain.RecordPatch, error)

// SetFields merges a caller-built patch as is
func SetFields(patch domain.RecordPatch) Command {
	return func(domain.ApplicationRecord) (domain.RecordPatch, error) {
		return patch, nil
	}
}

func AddExperience() Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		entries := append(rec.Experiences, domain.ExperienceEntry{ID: NewEntryID()})
		return domain.RecordPatch{Experiences: domain.Set(entries)}, nil
	}
}

func UpdateExperience(id string, changes domain.ExperienceChanges) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		i := indexByID(rec.Experiences, id, func(e domain.ExperienceEntry) string { return e.ID })
		if i < 0 {
			return domain.RecordPatch{}, ErrEntryNotFound
		}
		e := &rec.Experiences[i]
		if e.Current && changes.EndDate != nil && *changes.EndDate != "" {
			return domain.RecordPatch{}, ErrEndDateWhileCurrent
		}
		assign(&e.Company, changes.Company)
		assign(&e.Position, changes.Position)
		assign(&e.StartDate, changes.StartDate)
		assign(&e.EndDate, changes.EndDate)
		assign(&e.Description, changes.Description)
		return domain.RecordPatch{Experiences: domain.Set(rec.Experiences)}, nil
	}
}

// SetExperienceCurrent toggles the current flag. Turning it on clears the end
// date in the same patch; turning it off leaves the end date alone.
func SetExperienceCurrent(id string, current bool) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		i := indexByID(rec.Experiences, id, func(e domain.ExperienceEntry) string { return e.ID })
		if i < 0 {
			return domain.RecordPatch{}, ErrEntryNotFound
		}
		rec.Experiences[i].Current = current
		if current {
			rec.Experiences[i].EndDate = ""
		}
		return domain.RecordPatch{Experiences: domain.Set(rec.Experiences)}, nil
	}
}

func RemoveExperience(id string) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		out, err := removeByID(rec.Experiences, id, func(e domain.ExperienceEntry) string { return e.ID })
		if err != nil {
			return domain.RecordPatch{}, err
		}
		return domain.RecordPatch{Experiences: domain.Set(out)}, nil
	}
}

func AddEducation() Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		entries := append(rec.Education, domain.EducationEntry{ID: NewEntryID()})
		return domain.RecordPatch{Education: domain.Set(entries)}, nil
	}
}

func UpdateEducation(id string, changes domain.EducationChanges) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		i := indexByID(rec.Education, id, func(e domain.EducationEntry) string { return e.ID })
		if i < 0 {
			return domain.RecordPatch{}, ErrEntryNotFound
		}
		e := &rec.Education[i]
		assign(&e.Institution, changes.Institution)
		assign(&e.Degree, changes.Degree)
		assign(&e.Field, changes.Field)
		assign(&e.GraduationYear, changes.GraduationYear)
		assign(&e.GPA, changes.GPA)
		return domain.RecordPatch{Education: domain.Set(rec.Education)}, nil
	}
}

func RemoveEducation(id string) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		out, err := removeByID(rec.Education, id, func(e domain.EducationEntry) string { return e.ID })
		if err != nil {
			return domain.RecordPatch{}, err
		}
		return domain.RecordPatch{Education: domain.Set(out)}, nil
	}
}

// AddSkill trims the value and appends it unless it is empty or already present
func AddSkill(kind domain.SkillKind, skill string) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return domain.RecordPatch{}, ErrEmptyValue
		}
		list, err := skillList(rec, kind)
		if err != nil {
			return domain.RecordPatch{}, err
		}
		if slices.Contains(list, skill) {
			return domain.RecordPatch{}, ErrDuplicateSkill
		}
		return skillPatch(kind, append(list, skill)), nil
	}
}

// RemoveSkill removes every occurrence of skill; removing an absent skill is a no-op
func RemoveSkill(kind domain.SkillKind, skill string) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		list, err := skillList(rec, kind)
		if err != nil {
			return domain.RecordPatch{}, err
		}
		out := slices.DeleteFunc(list, func(s string) bool { return s == skill })
		return skillPatch(kind, out), nil
	}
}

func AddLanguage(language string, proficiency domain.Proficiency) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		language = strings.TrimSpace(language)
		if language == "" {
			return domain.RecordPatch{}, ErrEmptyValue
		}
		if !proficiency.Valid() {
			return domain.RecordPatch{}, ErrInvalidProficiency
		}
		if slices.ContainsFunc(rec.Languages, func(l domain.LanguageEntry) bool { return l.Language == language }) {
			return domain.RecordPatch{}, ErrDuplicateLanguage
		}
		entries := append(rec.Languages, domain.LanguageEntry{
			ID:          NewEntryID(),
			Language:    language,
			Proficiency: proficiency,
		})
		return domain.RecordPatch{Languages: domain.Set(entries)}, nil
	}
}

func RemoveLanguage(language string) Command {
	return func(rec domain.ApplicationRecord) (domain.RecordPatch, error) {
		out := slices.DeleteFunc(rec.Languages, func(l domain.LanguageEntry) bool { return l.Language == language })
		return domain.RecordPatch{Languages: domain.Set(out)}, nil
	}
}

func AttachDocument(kind domain.DocumentKind, doc *domain.Document) Command {
	return func(domain.ApplicationRecord) (domain.RecordPatch, error) {
		if doc == nil {
			return domain.RecordPatch{}, ErrEmptyValue
		}
		return documentPatch(kind, doc)
	}
}

func RemoveDocument(kind domain.DocumentKind) Command {
	return func(domain.ApplicationRecord) (domain.RecordPatch, error) {
		return documentPatch(kind, nil)
	}
}

func documentPatch(kind domain.DocumentKind, doc *domain.Document) (domain.RecordPatch, error) {
	switch kind {
	case domain.DocumentResume:
		return domain.RecordPatch{Resume: domain.Set(doc)}, nil
	case domain.DocumentCoverLetter:
		return domain.RecordPatch{CoverLetter: domain.Set(doc)}, nil
	}
	return domain.RecordPatch{}, ErrUnknownDocumentKind
}

func skillList(rec domain.ApplicationRecord, kind domain.SkillKind) ([]string, error) {
	switch kind {
	case domain.SkillTechnical:
		return rec.TechnicalSkills, nil
	case domain.SkillSoft:
		return rec.SoftSkills, nil
	}
	return nil, ErrUnknownSkillKind
}

func skillPatch(kind domain.SkillKind, list []string) domain.RecordPatch {
	if kind == domain.SkillSoft {
		return domain.RecordPatch{SoftSkills: domain.Set(list)}
	}
	return domain.RecordPatch{TechnicalSkills: domain.Set(list)}
}

func indexByID[T any](entries []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(entries, func(e T) bool { return idOf(e) == id })
}

func removeByID[T any](entries []T, id string, idOf func(T) string) ([]T, error) {
	i := indexByID(entries, id, idOf)
	if i < 0 {
		return nil, ErrEntryNotFound
	}
	return slices.Delete(entries, i, i+1), nil
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
