// Package cli drives one application form through terminal prompts, using the
// same commands, navigation and submission as the HTTP service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-job-intake/internal/domain"
	"go-job-intake/internal/intake"
	"go-job-intake/pkg/security/antivirus"
	"go-job-intake/pkg/validation"
)

var errQuit = errors.New("cli: quit")

var genders = []string{"male", "female", "other", "prefer-not-to-say"}

var proficiencies = []domain.Proficiency{
	domain.ProficiencyBeginner,
	domain.ProficiencyIntermediate,
	domain.ProficiencyAdvanced,
	domain.ProficiencyNative,
}

type Wizard struct {
	driver           PromptDriver
	ctrl             *intake.FormController
	validate         *validator.Validate
	readFile         func(string) ([]byte, error)
	scanner          antivirus.Scanner
	maxDocumentBytes int64
}

type Option func(*Wizard)

// WithFileReader replaces os.ReadFile for document paths
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(w *Wizard) { w.readFile = fn }
}

func WithMaxDocumentBytes(n int64) Option {
	return func(w *Wizard) { w.maxDocumentBytes = n }
}

func WithScanner(s antivirus.Scanner) Option {
	return func(w *Wizard) { w.scanner = s }
}

func NewWizard(driver PromptDriver, submitter intake.Submitter, opts ...Option) *Wizard {
	v := validator.New()
	validation.RegisterValidators(v)

	w := &Wizard{
		driver:           driver,
		validate:         v,
		readFile:         os.ReadFile,
		scanner:          antivirus.NoOpScanner{},
		maxDocumentBytes: 10 << 20,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.ctrl = intake.NewFormController(submitter)
	return w
}

// Record returns a snapshot of the form being edited
func (w *Wizard) Record() domain.ApplicationRecord {
	return w.ctrl.Record()
}

// Run walks the steps until the user submits and declines another application,
// or quits. Quitting is not an error.
func (w *Wizard) Run(ctx context.Context) error {
	err := w.loop(ctx)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (w *Wizard) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := w.ctrl.View()
		_, title, _ := intake.StepAt(view.StepIndex)
		if err := w.driver.Info(ctx, fmt.Sprintf("\n== Step %d of %d: %s (%.0f%%) ==",
			view.StepIndex+1, view.StepCount, title, view.Progress*100)); err != nil {
			return err
		}

		if view.Step == domain.StepReview {
			done, err := w.review(ctx, view)
			if err != nil || done {
				return err
			}
			continue
		}

		if err := w.fillStep(ctx, view.Step); err != nil {
			return err
		}
		if err := w.navigate(ctx); err != nil {
			return err
		}
	}
}

func (w *Wizard) fillStep(ctx context.Context, step domain.StepID) error {
	switch step {
	case domain.StepPersonalInfo:
		return w.personalInfo(ctx)
	case domain.StepContactInfo:
		return w.contactInfo(ctx)
	case domain.StepExperience:
		return w.experience(ctx)
	case domain.StepEducation:
		return w.education(ctx)
	case domain.StepSkills:
		return w.skills(ctx)
	case domain.StepDocuments:
		return w.documents(ctx)
	}
	return nil
}

func (w *Wizard) navigate(ctx context.Context) error {
	view := w.ctrl.View()
	options := []string{"Continue"}
	if view.CanRetreat {
		options = append(options, "Back")
	}
	options = append(options, "Quit")

	choice, err := w.choose(ctx, "Next", options, 0)
	if err != nil {
		return err
	}
	switch choice {
	case "Continue":
		moved, err := w.ctrl.Advance()
		if err != nil {
			return w.driver.Info(ctx, err.Error())
		}
		if !moved {
			return w.driver.Info(ctx, "Please complete the required fields (*) before continuing.")
		}
	case "Back":
		if _, err := w.ctrl.Retreat(); err != nil {
			return w.driver.Info(ctx, err.Error())
		}
	case "Quit":
		return errQuit
	}
	return nil
}

func (w *Wizard) review(ctx context.Context, view domain.FormView) (bool, error) {
	for _, line := range reviewLines(view) {
		if err := w.driver.Info(ctx, line); err != nil {
			return false, err
		}
	}

	choice, err := w.choose(ctx, "Ready to submit?", []string{"Submit application", "Back", "Quit"}, 0)
	if err != nil {
		return false, err
	}
	switch choice {
	case "Back":
		_, err := w.ctrl.Retreat()
		return false, err
	case "Quit":
		return true, nil
	}

	result, err := w.ctrl.Submit(ctx)
	if err != nil {
		return false, w.driver.Info(ctx, err.Error())
	}
	if err := w.driver.Info(ctx, result.UserMessage()); err != nil {
		return false, err
	}
	if !result.OK() {
		return false, nil
	}

	again, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Submit another application?"})
	if err != nil || !again {
		return true, err
	}
	return false, w.ctrl.Restart()
}

func reviewLines(view domain.FormView) []string {
	rec := view.Record
	lines := []string{
		fmt.Sprintf("Name:       %s %s", rec.FirstName, rec.LastName),
		fmt.Sprintf("Email:      %s", rec.Email),
		fmt.Sprintf("Phone:      %s", rec.Phone),
		fmt.Sprintf("LinkedIn:   %s", rec.LinkedIn),
		fmt.Sprintf("Position:   %s", positionLabel(rec.DesiredPosition)),
		fmt.Sprintf("Experience: %d entries, Education: %d entries", len(rec.Experiences), len(rec.Education)),
		fmt.Sprintf("Skills:     %s", strings.Join(append(append([]string{}, rec.TechnicalSkills...), rec.SoftSkills...), ", ")),
	}
	if rec.Resume != nil {
		lines = append(lines, fmt.Sprintf("Resume:     %s (%d bytes)", rec.Resume.Name, rec.Resume.Size))
	}
	if rec.CoverLetter != nil {
		lines = append(lines, fmt.Sprintf("Cover:      %s (%d bytes)", rec.CoverLetter.Name, rec.CoverLetter.Size))
	}
	for _, s := range view.Steps {
		if !s.Valid {
			lines = append(lines, fmt.Sprintf("! %s is incomplete", s.Title))
		}
	}
	if view.Status.State == domain.SubmissionFailed {
		lines = append(lines, "Last attempt: "+view.Status.Message)
	}
	return lines
}

func positionLabel(id string) string {
	if p, ok := domain.FindPosition(id); ok {
		return p.Label
	}
	return id
}
