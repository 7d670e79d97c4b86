package validation

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Phone            string `validate:"valid_phone"`
	DateOfBirth      string `validate:"calendar_date"`
	AvailabilityDate string `validate:"calendar_date,not_past_date"`
	StartDate        string `validate:"year_month"`
	GraduationYear   string `validate:"grad_year"`
	DesiredPosition  string `validate:"position_id"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	Now = func() time.Time { return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = time.Now })

	v := newValidator()

	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{name: "all empty is fine", in: sample{}},
		{name: "formatted phone", in: sample{Phone: "+1 (555) 000-0000"}},
		{name: "phone with letters", in: sample{Phone: "call me"}, wantErr: "valid_phone"},
		{name: "real date", in: sample{DateOfBirth: "1990-02-28"}},
		{name: "impossible date", in: sample{DateOfBirth: "1990-02-30"}, wantErr: "calendar_date"},
		{name: "availability today", in: sample{AvailabilityDate: "2026-03-10"}},
		{name: "availability yesterday", in: sample{AvailabilityDate: "2026-03-09"}, wantErr: "not_past_date"},
		{name: "year month", in: sample{StartDate: "2023-04"}},
		{name: "month 13", in: sample{StartDate: "2023-13"}, wantErr: "year_month"},
		{name: "graduation in range", in: sample{GraduationYear: "2030"}},
		{name: "graduation too early", in: sample{GraduationYear: "1949"}, wantErr: "grad_year"},
		{name: "graduation not a number", in: sample{GraduationYear: "soon"}, wantErr: "grad_year"},
		{name: "catalog position", in: sample{DesiredPosition: "data-analyst"}},
		{name: "unknown position", in: sample{DesiredPosition: "astronaut"}, wantErr: "position_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs := err.(validator.ValidationErrors)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantErr, errs[0].Tag())
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator()

	err := v.Struct(sample{GraduationYear: "1800", Phone: "x"})
	require.Error(t, err)

	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, "Phone Number: invalid phone number format")
	assert.Contains(t, msgs, "Graduation Year: must be a year between 1950 and 2030")
}
