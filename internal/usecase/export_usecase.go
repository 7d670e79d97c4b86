package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"go-job-intake/internal/domain"
	"go-job-intake/pkg/apperror"
)

// MaxExportRows caps a single export
const MaxExportRows = 1000

type exportColumn struct {
	header string
	width  float64
	value  func(a domain.SubmittedApplication) interface{}
}

var exportColumns = []exportColumn{
	{"SUBMITTED AT", 20, func(a domain.SubmittedApplication) interface{} { return a.CreatedAt.UTC().Format("2006-01-02 15:04") }},
	{"FIRST NAME", 18, func(a domain.SubmittedApplication) interface{} { return a.FirstName }},
	{"LAST NAME", 18, func(a domain.SubmittedApplication) interface{} { return a.LastName }},
	{"EMAIL", 28, func(a domain.SubmittedApplication) interface{} { return a.Email }},
	{"PHONE", 18, func(a domain.SubmittedApplication) interface{} { return a.Phone }},
	{"CITY", 16, func(a domain.SubmittedApplication) interface{} { return a.City }},
	{"NATIONALITY", 16, func(a domain.SubmittedApplication) interface{} { return a.Nationality }},
	{"DESIRED POSITION", 24, func(a domain.SubmittedApplication) interface{} { return positionLabel(a.DesiredPosition) }},
	{"WORK TYPE", 12, func(a domain.SubmittedApplication) interface{} { return string(a.WorkType) }},
	{"EXPECTED SALARY", 16, func(a domain.SubmittedApplication) interface{} { return a.ExpectedSalary }},
	{"AVAILABLE FROM", 14, func(a domain.SubmittedApplication) interface{} { return deref(a.AvailabilityDate) }},
	{"EXPERIENCE", 40, func(a domain.SubmittedApplication) interface{} { return experienceSummary(a.Experiences) }},
	{"EDUCATION", 40, func(a domain.SubmittedApplication) interface{} { return educationSummary(a.Education) }},
	{"TECHNICAL SKILLS", 30, func(a domain.SubmittedApplication) interface{} { return strings.Join(a.TechnicalSkills, ", ") }},
	{"SOFT SKILLS", 30, func(a domain.SubmittedApplication) interface{} { return strings.Join(a.SoftSkills, ", ") }},
	{"LANGUAGES", 30, func(a domain.SubmittedApplication) interface{} { return languageSummary(a.Languages) }},
	{"LINKEDIN", 30, func(a domain.SubmittedApplication) interface{} { return a.LinkedIn }},
	{"RESUME", 40, func(a domain.SubmittedApplication) interface{} { return deref(a.ResumeFilename) }},
	{"COVER LETTER", 40, func(a domain.SubmittedApplication) interface{} { return deref(a.CoverLetterFilename) }},
}

type exportUsecase struct {
	repo domain.ApplicationRepository
	now  func() time.Time
}

// NewExportUsecase creates the back-office export usecase
func NewExportUsecase(repo domain.ApplicationRepository) domain.ExportUsecase {
	return &exportUsecase{repo: repo, now: time.Now}
}

// ExportApplications renders applications submitted since the given time as XLSX, newest first
func (u *exportUsecase) ExportApplications(ctx context.Context, since time.Time) ([]byte, string, error) {
	apps, err := u.repo.ListSubmitted(ctx, since, MaxExportRows)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", apperror.Internal(err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.header)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, col.width)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, app := range apps {
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, col.value(app))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}

	filename := fmt.Sprintf("job_applications_%s.xlsx", u.now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func positionLabel(id string) string {
	if p, ok := domain.FindPosition(id); ok {
		return p.Label
	}
	return id
}

func experienceSummary(entries []domain.ExperienceEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		end := e.EndDate
		if e.Current {
			end = "present"
		}
		parts = append(parts, fmt.Sprintf("%s @ %s (%s - %s)", e.Position, e.Company, e.StartDate, end))
	}
	return strings.Join(parts, "; ")
}

func educationSummary(entries []domain.EducationEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s %s, %s (%s)", e.Degree, e.Field, e.Institution, e.GraduationYear))
	}
	return strings.Join(parts, "; ")
}

func languageSummary(entries []domain.LanguageEntry) string {
	parts := make([]string, 0, len(entries))
	for _, l := range entries {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Language, l.Proficiency))
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
