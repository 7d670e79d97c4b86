package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-job-intake/internal/domain"
)

func TestDate_RoundTrip(t *testing.T) {
	d, err := domain.ParseDate("1999-12-31")
	require.NoError(t, err)
	assert.Equal(t, domain.Date{Year: 1999, Month: time.December, Day: 31}, d)
	assert.Equal(t, "1999-12-31", d.String())

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1999-12-31"`, string(raw))

	var back domain.Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)

	_, err = domain.ParseDate("31/12/1999")
	assert.Error(t, err)
}

func TestDate_Before(t *testing.T) {
	a := domain.Date{Year: 2024, Month: time.March, Day: 5}
	assert.True(t, a.Before(domain.Date{Year: 2024, Month: time.March, Day: 6}))
	assert.True(t, a.Before(domain.Date{Year: 2025, Month: time.January, Day: 1}))
	assert.False(t, a.Before(a))
}

func TestRecordPatch_Apply(t *testing.T) {
	rec := domain.NewApplicationRecord()
	rec.FirstName = "Jane"
	rec.Resume = &domain.Document{Name: "cv.pdf"}

	domain.RecordPatch{
		LastName: domain.Set("Doe"),
		Resume:   domain.Set[*domain.Document](nil),
		WorkType: domain.Set(domain.WorkTypeHybrid),
	}.Apply(&rec)

	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, "Doe", rec.LastName)
	assert.Nil(t, rec.Resume)
	assert.Equal(t, domain.WorkTypeHybrid, rec.WorkType)
}

func TestSubmissionResult_UserMessage(t *testing.T) {
	assert.Equal(t, "Failed to upload cover letter: denied",
		domain.SubmissionResult{Outcome: domain.OutcomeUploadFailed, Document: domain.DocumentCoverLetter, Message: "denied"}.UserMessage())
	assert.Equal(t, "An unexpected error occurred. Please try again.",
		domain.SubmissionResult{Outcome: domain.OutcomeUnexpectedFailure}.UserMessage())
}

func TestUpdateFieldsRequest_ToPatch(t *testing.T) {
	empty := ""
	dob := "1990-01-02"
	first := "Jane"
	req := domain.UpdateFieldsRequest{FirstName: &first, DateOfBirth: &dob, AvailabilityDate: &empty}

	p, err := req.ToPatch()
	require.NoError(t, err)

	rec := domain.NewApplicationRecord()
	rec.AvailabilityDate = domain.DatePtr(domain.Date{Year: 2030, Month: time.January, Day: 1})
	rec.LastName = "Doe"
	p.Apply(&rec)

	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, "Doe", rec.LastName)
	require.NotNil(t, rec.DateOfBirth)
	assert.Equal(t, "1990-01-02", rec.DateOfBirth.String())
	assert.Nil(t, rec.AvailabilityDate, "empty string clears the date")
	assert.True(t, (&domain.UpdateFieldsRequest{}).Empty())
}

func TestUpdateFieldsRequest_ToPatchClosedSets(t *testing.T) {
	banana := "banana"
	remote := "remote"
	position := "data-analyst"
	empty := ""

	_, err := (&domain.UpdateFieldsRequest{WorkType: &banana}).ToPatch()
	assert.ErrorIs(t, err, domain.ErrUnknownWorkType)

	_, err = (&domain.UpdateFieldsRequest{DesiredPosition: &banana}).ToPatch()
	assert.ErrorIs(t, err, domain.ErrUnknownPosition)

	p, err := (&domain.UpdateFieldsRequest{WorkType: &remote, DesiredPosition: &position}).ToPatch()
	require.NoError(t, err)
	rec := domain.NewApplicationRecord()
	p.Apply(&rec)
	assert.Equal(t, domain.WorkTypeRemote, rec.WorkType)
	assert.Equal(t, "data-analyst", rec.DesiredPosition)

	p, err = (&domain.UpdateFieldsRequest{WorkType: &empty, DesiredPosition: &empty}).ToPatch()
	require.NoError(t, err)
	p.Apply(&rec)
	assert.Empty(t, rec.WorkType)
	assert.Empty(t, rec.DesiredPosition)
}
