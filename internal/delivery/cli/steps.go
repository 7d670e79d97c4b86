package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go-job-intake/internal/domain"
	"go-job-intake/internal/intake"
	"go-job-intake/pkg/security"
)

func (w *Wizard) personalInfo(ctx context.Context) error {
	rec := w.ctrl.Record()
	var req domain.UpdateFieldsRequest
	var err error

	if req.FirstName, err = w.ask(ctx, "First name *", rec.FirstName, "max=100,valid_name"); err != nil {
		return err
	}
	if req.LastName, err = w.ask(ctx, "Last name *", rec.LastName, "max=100,valid_name"); err != nil {
		return err
	}
	if req.DateOfBirth, err = w.ask(ctx, "Date of birth (YYYY-MM-DD) *", dateString(rec.DateOfBirth), "calendar_date"); err != nil {
		return err
	}
	gender, err := w.choose(ctx, "Gender *", genders, indexOf(genders, rec.Gender))
	if err != nil {
		return err
	}
	req.Gender = &gender
	if req.Nationality, err = w.ask(ctx, "Nationality", rec.Nationality, "max=100"); err != nil {
		return err
	}
	return w.setFields(ctx, &req)
}

func (w *Wizard) contactInfo(ctx context.Context) error {
	rec := w.ctrl.Record()
	var req domain.UpdateFieldsRequest

	fields := []struct {
		dst   **string
		label string
		value string
		tag   string
	}{
		{&req.Email, "Email *", rec.Email, "max=254,email"},
		{&req.Phone, "Phone *", rec.Phone, "valid_phone"},
		{&req.Address, "Street address *", rec.Address, "max=255"},
		{&req.City, "City *", rec.City, "max=100"},
		{&req.State, "State/Province *", rec.State, "max=100"},
		{&req.ZipCode, "ZIP/Postal code *", rec.ZipCode, "max=20"},
		{&req.LinkedIn, "LinkedIn profile URL *", rec.LinkedIn, "max=255"},
		{&req.Portfolio, "Portfolio/Website", rec.Portfolio, "max=255"},
	}
	for _, f := range fields {
		v, err := w.ask(ctx, f.label, f.value, f.tag)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return w.setFields(ctx, &req)
}

func (w *Wizard) experience(ctx context.Context) error {
	for {
		rec := w.ctrl.Record()
		labels := make([]string, 0, len(rec.Experiences))
		for _, e := range rec.Experiences {
			end := e.EndDate
			if e.Current {
				end = "Present"
			}
			labels = append(labels, fmt.Sprintf("%s at %s (%s - %s)", e.Position, e.Company, e.StartDate, end))
		}
		for _, l := range labels {
			if err := w.driver.Info(ctx, "  - "+l); err != nil {
				return err
			}
		}

		choice, err := w.choose(ctx, "Work experience", entryActions("experience", len(labels)), 0)
		if err != nil {
			return err
		}
		switch {
		case strings.HasPrefix(choice, "Add"):
			if err := w.addExperience(ctx); err != nil {
				return err
			}
		case strings.HasPrefix(choice, "Remove"):
			i, err := w.driver.Select(ctx, SelectConfig{Message: "Remove which entry?", Options: labels})
			if err != nil {
				return err
			}
			if i >= 0 && i < len(rec.Experiences) {
				if err := w.apply(ctx, intake.RemoveExperience(rec.Experiences[i].ID)); err != nil {
					return err
				}
			}
		default:
			return nil
		}
	}
}

func (w *Wizard) addExperience(ctx context.Context) error {
	if err := w.apply(ctx, intake.AddExperience()); err != nil {
		return err
	}
	entries := w.ctrl.Record().Experiences
	if len(entries) == 0 {
		return nil
	}
	id := entries[len(entries)-1].ID

	var req domain.UpdateExperienceRequest
	var err error
	if req.Company, err = w.ask(ctx, "Company", "", "max=150"); err != nil {
		return err
	}
	if req.Position, err = w.ask(ctx, "Position", "", "max=150"); err != nil {
		return err
	}
	if req.StartDate, err = w.ask(ctx, "Start (YYYY-MM)", "", "year_month"); err != nil {
		return err
	}
	current, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "I currently work here"})
	if err != nil {
		return err
	}
	if !current {
		if req.EndDate, err = w.ask(ctx, "End (YYYY-MM)", "", "year_month"); err != nil {
			return err
		}
	}
	description, err := w.driver.TextArea(ctx, TextAreaConfig{Message: "Description"})
	if err != nil {
		return err
	}
	req.Description = &description

	if err := w.apply(ctx, intake.UpdateExperience(id, req.ToChanges())); err != nil {
		return err
	}
	if current {
		return w.apply(ctx, intake.SetExperienceCurrent(id, true))
	}
	return nil
}

func (w *Wizard) education(ctx context.Context) error {
	for {
		rec := w.ctrl.Record()
		labels := make([]string, 0, len(rec.Education))
		for _, e := range rec.Education {
			labels = append(labels, fmt.Sprintf("%s %s, %s (%s)", e.Degree, e.Field, e.Institution, e.GraduationYear))
		}
		for _, l := range labels {
			if err := w.driver.Info(ctx, "  - "+l); err != nil {
				return err
			}
		}

		choice, err := w.choose(ctx, "Education", entryActions("education", len(labels)), 0)
		if err != nil {
			return err
		}
		switch {
		case strings.HasPrefix(choice, "Add"):
			if err := w.addEducation(ctx); err != nil {
				return err
			}
		case strings.HasPrefix(choice, "Remove"):
			i, err := w.driver.Select(ctx, SelectConfig{Message: "Remove which entry?", Options: labels})
			if err != nil {
				return err
			}
			if i >= 0 && i < len(rec.Education) {
				if err := w.apply(ctx, intake.RemoveEducation(rec.Education[i].ID)); err != nil {
					return err
				}
			}
		default:
			return nil
		}
	}
}

func (w *Wizard) addEducation(ctx context.Context) error {
	if err := w.apply(ctx, intake.AddEducation()); err != nil {
		return err
	}
	entries := w.ctrl.Record().Education
	if len(entries) == 0 {
		return nil
	}
	id := entries[len(entries)-1].ID

	var req domain.UpdateEducationRequest
	var err error
	if req.Institution, err = w.ask(ctx, "Institution", "", "max=150"); err != nil {
		return err
	}
	if req.Degree, err = w.ask(ctx, "Degree", "", "max=100"); err != nil {
		return err
	}
	if req.Field, err = w.ask(ctx, "Field of study", "", "max=150"); err != nil {
		return err
	}
	if req.GraduationYear, err = w.ask(ctx, "Graduation year", "", "grad_year"); err != nil {
		return err
	}
	if req.GPA, err = w.ask(ctx, "GPA", "", "max=20"); err != nil {
		return err
	}
	return w.apply(ctx, intake.UpdateEducation(id, req.ToChanges()))
}

func (w *Wizard) skills(ctx context.Context) error {
	for _, kind := range []domain.SkillKind{domain.SkillTechnical, domain.SkillSoft} {
		line, err := w.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("Add %s skills (comma separated, empty to skip)", kind),
		})
		if err != nil {
			return err
		}
		for _, skill := range strings.Split(line, ",") {
			if strings.TrimSpace(skill) == "" {
				continue
			}
			if err := w.apply(ctx, intake.AddSkill(kind, skill)); err != nil {
				return err
			}
		}
	}

	for {
		add, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Add a language?"})
		if err != nil || !add {
			return err
		}
		language, err := w.driver.Input(ctx, InputConfig{Message: "Language"})
		if err != nil {
			return err
		}
		options := make([]string, len(proficiencies))
		for i, p := range proficiencies {
			options[i] = string(p)
		}
		i, err := w.driver.Select(ctx, SelectConfig{Message: "Proficiency", Options: options})
		if err != nil {
			return err
		}
		if i < 0 || i >= len(proficiencies) {
			continue
		}
		if err := w.apply(ctx, intake.AddLanguage(language, proficiencies[i])); err != nil {
			return err
		}
	}
}

func (w *Wizard) documents(ctx context.Context) error {
	rec := w.ctrl.Record()
	var req domain.UpdateFieldsRequest

	positions := make([]string, len(domain.PositionCatalog))
	current := -1
	for i, p := range domain.PositionCatalog {
		positions[i] = fmt.Sprintf("%s (%d open)", p.Label, p.Openings)
		if p.ID == rec.DesiredPosition {
			current = i
		}
	}
	i, err := w.driver.Select(ctx, SelectConfig{Message: "Desired position", Options: positions, DefaultIndex: current})
	if err != nil {
		return err
	}
	if i >= 0 && i < len(domain.PositionCatalog) {
		req.DesiredPosition = &domain.PositionCatalog[i].ID
	}
	if req.ExpectedSalary, err = w.ask(ctx, "Expected salary", rec.ExpectedSalary, "max=100,no_emoji"); err != nil {
		return err
	}
	if req.AvailabilityDate, err = w.ask(ctx, "Available from (YYYY-MM-DD)", dateString(rec.AvailabilityDate), "calendar_date,not_past_date"); err != nil {
		return err
	}
	workTypes := make([]string, len(domain.WorkTypes))
	for i, wt := range domain.WorkTypes {
		workTypes[i] = string(wt)
	}
	workType, err := w.choose(ctx, "Work type", workTypes, indexOf(workTypes, string(rec.WorkType)))
	if err != nil {
		return err
	}
	req.WorkType = &workType
	if err := w.setFields(ctx, &req); err != nil {
		return err
	}

	if err := w.driver.Info(ctx, "Attach a resume, a cover letter, or both (*at least one)."); err != nil {
		return err
	}
	if err := w.document(ctx, domain.DocumentResume, rec.Resume, "Resume path (PDF, DOC, DOCX)"); err != nil {
		return err
	}
	return w.document(ctx, domain.DocumentCoverLetter, rec.CoverLetter, "Cover letter path (PDF, DOC, DOCX)")
}

func (w *Wizard) document(ctx context.Context, kind domain.DocumentKind, existing *domain.Document, message string) error {
	if existing != nil {
		replace, err := w.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s attached: %s. Replace it?", kind.Label(), existing.Name),
		})
		if err != nil || !replace {
			return err
		}
	}

	path, err := w.driver.Input(ctx, InputConfig{Message: message})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	data, err := w.readFile(path)
	if err != nil {
		return w.driver.Info(ctx, fmt.Sprintf("Cannot read %s: %v", path, err))
	}
	if int64(len(data)) > w.maxDocumentBytes {
		return w.driver.Info(ctx, fmt.Sprintf("%s is too large (max %d MB)", path, w.maxDocumentBytes>>20))
	}
	name := filepath.Base(path)
	check := security.ValidateDocument(name, data)
	if !check.Valid {
		return w.driver.Info(ctx, fmt.Sprintf("%s rejected: %s", name, check.Error))
	}
	if scan := w.scanner.Scan(ctx, name, data); scan.Infected {
		return w.driver.Info(ctx, fmt.Sprintf("%s rejected: malware detected (%s)", name, scan.ThreatName))
	} else if scan.Error != nil {
		return w.driver.Info(ctx, fmt.Sprintf("%s could not be scanned: %v", name, scan.Error))
	}
	return w.apply(ctx, intake.AttachDocument(kind, &domain.Document{
		Name:     name,
		Size:     int64(len(data)),
		MIMEType: check.DetectedMIME,
		Content:  data,
	}))
}

// ask prompts with the current value as default and validates with the given tags
func (w *Wizard) ask(ctx context.Context, message, current, tags string) (*string, error) {
	v, err := w.driver.Input(ctx, InputConfig{
		Message: message,
		Default: current,
		Validator: func(s string) error {
			if s == "" {
				return nil
			}
			if err := w.validate.Var(s, tags); err != nil {
				return fmt.Errorf("invalid value for %s", strings.TrimSuffix(message, " *"))
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (w *Wizard) choose(ctx context.Context, message string, options []string, def int) (string, error) {
	i, err := w.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: def})
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(options) {
		return "", fmt.Errorf("cli: selection %d out of range", i)
	}
	return options[i], nil
}

func (w *Wizard) setFields(ctx context.Context, req *domain.UpdateFieldsRequest) error {
	patch, err := req.ToPatch()
	if err != nil {
		return w.driver.Info(ctx, err.Error())
	}
	return w.apply(ctx, intake.SetFields(patch))
}

// apply reports command failures to the user; only prompt errors abort the wizard
func (w *Wizard) apply(ctx context.Context, cmd intake.Command) error {
	if err := w.ctrl.Apply(cmd); err != nil {
		if errors.Is(err, intake.ErrSubmissionInProgress) || errors.Is(err, intake.ErrSessionCompleted) {
			return err
		}
		return w.driver.Info(ctx, err.Error())
	}
	return nil
}

func entryActions(noun string, count int) []string {
	actions := []string{"Add " + noun}
	if count > 0 {
		actions = append(actions, "Remove "+noun)
	}
	return append(actions, "Done")
}

func dateString(d *domain.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
