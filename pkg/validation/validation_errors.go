package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown on the form
var FieldLabels = map[string]string{
	"FirstName":        "First Name",
	"LastName":         "Last Name",
	"DateOfBirth":      "Date of Birth",
	"Gender":           "Gender",
	"Nationality":      "Nationality",
	"Email":            "Email Address",
	"Phone":            "Phone Number",
	"Address":          "Street Address",
	"City":             "City",
	"State":            "State/Province",
	"ZipCode":          "ZIP/Postal Code",
	"LinkedIn":         "LinkedIn Profile",
	"Portfolio":        "Portfolio/Website",
	"Company":          "Company",
	"Position":         "Position",
	"StartDate":        "Start Date",
	"EndDate":          "End Date",
	"Description":      "Description",
	"Institution":      "Institution",
	"Degree":           "Degree",
	"Field":            "Field of Study",
	"GraduationYear":   "Graduation Year",
	"GPA":              "GPA",
	"Skill":            "Skill",
	"Language":         "Language",
	"Proficiency":      "Proficiency",
	"DesiredPosition":  "Desired Position",
	"ExpectedSalary":   "Expected Salary",
	"AvailabilityDate": "Availability Date",
	"WorkType":         "Work Type",
	"Current":          "Currently Working Here",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)
	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and common punctuation (. ' - /) are allowed", label)
	case "valid_phone":
		return fmt.Sprintf("%s: invalid phone number format", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	case "calendar_date":
		return fmt.Sprintf("%s: must be a date in YYYY-MM-DD format", label)
	case "not_past_date":
		return fmt.Sprintf("%s: must not be in the past", label)
	case "year_month":
		return fmt.Sprintf("%s: must be a month in YYYY-MM format", label)
	case "grad_year":
		return fmt.Sprintf("%s: must be a year between %d and %d", label, MinGraduationYear, MaxGraduationYear)
	case "position_id":
		return fmt.Sprintf("%s: must be one of the open positions", label)
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
