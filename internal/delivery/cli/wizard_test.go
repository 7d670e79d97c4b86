package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-job-intake/internal/domain"
	"go-job-intake/pkg/security/antivirus"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	confirm   []bool
	textAreas []string

	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted for " + cfg.Message)
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted for " + cfg.Message)
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted for " + cfg.Message)
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) said(substr string) bool {
	for _, m := range s.infoMessages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type recordingSubmitter struct {
	submitted []domain.ApplicationRecord
}

func (r *recordingSubmitter) Submit(_ context.Context, rec domain.ApplicationRecord) domain.SubmissionResult {
	r.submitted = append(r.submitted, rec)
	return domain.SubmissionResult{Outcome: domain.OutcomeSuccess, RecordID: "rec-1"}
}

func pdf() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func TestWizardCompletesApplication(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			// personal info
			"Jane", "Doe", "1990-05-01", "Canadian",
			// contact info
			"jane@example.com", "+1 555 000 0000", "1 Main St", "Toronto", "ON", "M5V 2T6",
			"https://www.linkedin.com/in/jane-doe", "",
			// experience
			"Acme", "Engineer", "2020-01",
			// skills and languages
			"Go, SQL, Go", "", "French",
			// documents
			"90000", "", "/tmp/cv.pdf", "",
		},
		selectIdx: []int{
			1, 0, // gender female, continue
			0,       // contact: continue
			0, 2, 0, // experience: add, done, continue
			1, 0, // education: done, continue
			3, 0, // proficiency native, continue
			4, 3, 0, // backend-developer, remote, continue
			0, // review: submit
		},
		confirm:   []bool{true, true, false, false},
		textAreas: []string{"Built things"},
	}
	submitter := &recordingSubmitter{}
	readFile := func(path string) ([]byte, error) {
		require.Equal(t, "/tmp/cv.pdf", path)
		return pdf(), nil
	}

	w := NewWizard(driver, submitter, WithFileReader(readFile))
	require.NoError(t, w.Run(context.Background()))

	require.Len(t, submitter.submitted, 1)
	rec := submitter.submitted[0]
	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, "female", rec.Gender)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", rec.LinkedIn)
	require.Len(t, rec.Experiences, 1)
	assert.Equal(t, "Acme", rec.Experiences[0].Company)
	assert.True(t, rec.Experiences[0].Current)
	assert.Empty(t, rec.Experiences[0].EndDate)
	assert.Equal(t, []string{"Go", "SQL"}, rec.TechnicalSkills)
	require.Len(t, rec.Languages, 1)
	assert.Equal(t, domain.ProficiencyNative, rec.Languages[0].Proficiency)
	assert.Equal(t, "backend-developer", rec.DesiredPosition)
	assert.Equal(t, domain.WorkTypeRemote, rec.WorkType)
	require.NotNil(t, rec.Resume)
	assert.Equal(t, "cv.pdf", rec.Resume.Name)
	assert.Equal(t, "application/pdf", rec.Resume.MIMEType)
	assert.Nil(t, rec.CoverLetter)

	assert.True(t, driver.said("skill already added"))
	assert.True(t, driver.said("Application submitted successfully!"))

	// the form resets after a successful submission
	assert.Empty(t, w.Record().FirstName)
}

func TestWizardStaysOnIncompleteStep(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "", "", "", "", "", "", ""},
		selectIdx: []int{0, 0, 0, 1},
	}
	w := NewWizard(driver, &recordingSubmitter{})

	require.NoError(t, w.Run(context.Background()))
	assert.True(t, driver.said("Please complete the required fields"))
	assert.Equal(t, domain.StepPersonalInfo, w.ctrl.View().Step)
}

func TestWizardRejectsUnsupportedDocument(t *testing.T) {
	driver := &stubDriver{inputs: []string{"/tmp/cv.exe"}}
	w := NewWizard(driver, &recordingSubmitter{}, WithFileReader(func(string) ([]byte, error) {
		return []byte("MZ\x90\x00"), nil
	}))

	require.NoError(t, w.document(context.Background(), domain.DocumentResume, nil, "Resume"))
	assert.True(t, driver.said("cv.exe rejected"))
	assert.Nil(t, w.Record().Resume)
}

type infectedScanner struct{ antivirus.NoOpScanner }

func (infectedScanner) Scan(context.Context, string, []byte) antivirus.ScanResult {
	return antivirus.ScanResult{Infected: true, ThreatName: "Eicar-Test-Signature", ScannerName: "stub"}
}

func TestWizardRejectsInfectedDocument(t *testing.T) {
	driver := &stubDriver{inputs: []string{"/tmp/cv.pdf"}}
	w := NewWizard(driver, &recordingSubmitter{},
		WithScanner(infectedScanner{}),
		WithFileReader(func(string) ([]byte, error) { return pdf(), nil }),
	)

	require.NoError(t, w.document(context.Background(), domain.DocumentResume, nil, "Resume"))
	assert.True(t, driver.said("Eicar-Test-Signature"))
	assert.Nil(t, w.Record().Resume)
}

func TestWizardAbort(t *testing.T) {
	driver := &abortingDriver{stubDriver: &stubDriver{}}
	w := NewWizard(driver, &recordingSubmitter{})

	err := w.Run(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
}

type abortingDriver struct {
	*stubDriver
}

func (d *abortingDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}
