package validation

import (
	"regexp"
	"strconv"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"go-job-intake/internal/domain"
)

const (
	MinGraduationYear = 1950
	MaxGraduationYear = 2030
)

// Regex patterns
var (
	// Allow letters, numbers, spaces, and common professional punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// Optional +, then digits with the usual separators, e.g. "+1 (555) 000-0000"
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,22}[0-9]$`)

	yearMonthRegex = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])$`)
)

// Now is the clock used by date validators
var Now = time.Now

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("calendar_date", CalendarDate)
	_ = v.RegisterValidation("not_past_date", NotPastDate)
	_ = v.RegisterValidation("year_month", YearMonth)
	_ = v.RegisterValidation("grad_year", GraduationYear)
	_ = v.RegisterValidation("position_id", PositionID)
}

// PositionID accepts only ids from the position catalog
func PositionID(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, ok := domain.FindPosition(val)
	return ok
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// CalendarDate accepts YYYY-MM-DD. Empty means "clear" and is allowed.
func CalendarDate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", val)
	return err == nil
}

// NotPastDate rejects calendar dates before today in the server's local zone
func NotPastDate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	d, err := time.Parse("2006-01-02", val)
	if err != nil {
		return false
	}
	y, m, day := Now().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return !d.Before(today)
}

// YearMonth accepts month-precision dates such as "2023-04"
func YearMonth(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return yearMonthRegex.MatchString(val)
}

// GraduationYear accepts a four digit year in the selectable range
func GraduationYear(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	year, err := strconv.Atoi(val)
	if err != nil {
		return false
	}
	return year >= MinGraduationYear && year <= MaxGraduationYear
}
