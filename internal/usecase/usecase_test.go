package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"go-job-intake/internal/domain"
	"go-job-intake/internal/usecase"
	"go-job-intake/pkg/apperror"
	"go-job-intake/pkg/auth"
	"go-job-intake/pkg/email"
)

// Mocks
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSubmitted(ctx context.Context, event domain.ApplicationSubmittedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, payload *domain.ApplicationPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockApplicationRepo) ListSubmitted(ctx context.Context, since time.Time, limit int) ([]domain.SubmittedApplication, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmittedApplication), args.Error(1)
}

// gatedSubmitter blocks every submission until release is closed
type gatedSubmitter struct {
	release chan struct{}
	result  domain.SubmissionResult

	mu    sync.Mutex
	calls int
}

func newGatedSubmitter(result domain.SubmissionResult) *gatedSubmitter {
	return &gatedSubmitter{release: make(chan struct{}), result: result}
}

func (g *gatedSubmitter) Submit(_ context.Context, _ domain.ApplicationRecord) domain.SubmissionResult {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	<-g.release
	return g.result
}

func (g *gatedSubmitter) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newManager(t *testing.T, sub *gatedSubmitter, pub domain.SubmissionPublisher, idle time.Duration) *usecase.SessionManager {
	t.Helper()
	tokens, err := auth.NewSessionTokens("test-secret", time.Hour)
	require.NoError(t, err)
	m := usecase.NewIntakeUsecase(sub, pub, tokens, idle)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func str(s string) *string { return &s }

func fillAndReachReview(t *testing.T, m *usecase.SessionManager, id string) {
	t.Helper()
	ctx := context.Background()
	req := domain.UpdateFieldsRequest{
		FirstName: str("Jane"), LastName: str("Doe"), DateOfBirth: str("1992-05-14"), Gender: str("female"),
		Email: str("jane@example.com"), Phone: str("+1 555 000 0000"), Address: str("1 Main St"),
		City: str("Toronto"), State: str("ON"), ZipCode: str("M5V 2T6"),
		LinkedIn:        str("https://linkedin.com/in/jane"),
		DesiredPosition: str("backend-developer"), WorkType: str("remote"),
	}
	patch, err := req.ToPatch()
	require.NoError(t, err)
	_, err = m.UpdateFields(ctx, id, patch)
	require.NoError(t, err)

	_, err = m.AttachDocument(ctx, id, domain.DocumentResume, &domain.Document{
		Name: "cv.pdf", Size: 8, MIMEType: "application/pdf", Content: []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	var view *domain.FormView
	for i := 0; i < 6; i++ {
		view, err = m.Next(ctx, id)
		require.NoError(t, err)
	}
	require.Equal(t, domain.StepReview, view.Step)
}

func assertAppError(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestStartSession(t *testing.T) {
	m := newManager(t, newGatedSubmitter(domain.SubmissionResult{}), nil, time.Minute)

	sv, err := m.StartSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sv.SessionID)
	assert.NotEmpty(t, sv.Token)
	assert.Equal(t, domain.StepPersonalInfo, sv.View.Step)
	assert.Equal(t, domain.SubmissionIdle, sv.View.Status.State)
	assert.Equal(t, 1, m.ActiveSessions())
}

func TestUnknownSession(t *testing.T) {
	m := newManager(t, newGatedSubmitter(domain.SubmissionResult{}), nil, time.Minute)

	_, err := m.GetView(context.Background(), "missing")
	assertAppError(t, err, http.StatusNotFound)
}

func TestCommandErrorsMapToHTTPCodes(t *testing.T) {
	m := newManager(t, newGatedSubmitter(domain.SubmissionResult{}), nil, time.Minute)
	ctx := context.Background()
	sv, err := m.StartSession(ctx)
	require.NoError(t, err)

	_, err = m.AddSkill(ctx, sv.SessionID, domain.SkillTechnical, "Go")
	require.NoError(t, err)
	_, err = m.AddSkill(ctx, sv.SessionID, domain.SkillTechnical, "Go")
	assertAppError(t, err, http.StatusConflict)

	_, err = m.AddLanguage(ctx, sv.SessionID, "English", "")
	assertAppError(t, err, http.StatusBadRequest)

	_, err = m.RemoveExperience(ctx, sv.SessionID, "nope")
	assertAppError(t, err, http.StatusNotFound)

	_, err = m.Submit(ctx, sv.SessionID)
	assertAppError(t, err, http.StatusConflict)
}

func TestSubmit_RunsInBackgroundAndPublishes(t *testing.T) {
	sub := newGatedSubmitter(domain.SubmissionResult{Outcome: domain.OutcomeSuccess, RecordID: "rec-7"})
	pub := new(MockPublisher)
	published := make(chan domain.ApplicationSubmittedEvent, 1)
	pub.On("PublishSubmitted", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published <- args.Get(1).(domain.ApplicationSubmittedEvent) }).
		Return(nil).Once()

	m := newManager(t, sub, pub, time.Minute)
	ctx := context.Background()
	sv, err := m.StartSession(ctx)
	require.NoError(t, err)
	fillAndReachReview(t, m, sv.SessionID)

	view, err := m.Submit(ctx, sv.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionInProgress, view.Status.State)
	assert.False(t, view.CanSubmit)

	// the session keeps answering while the submission is blocked
	view, err = m.GetView(ctx, sv.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionInProgress, view.Status.State)

	_, err = m.Submit(ctx, sv.SessionID)
	assertAppError(t, err, http.StatusConflict)
	_, err = m.Previous(ctx, sv.SessionID)
	assertAppError(t, err, http.StatusConflict)

	close(sub.release)

	assert.Eventually(t, func() bool {
		v, err := m.GetView(ctx, sv.SessionID)
		return err == nil && v.Status.State == domain.SubmissionSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	view, err = m.GetView(ctx, sv.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPersonalInfo, view.Step)
	assert.Empty(t, view.Record.FirstName)
	assert.Equal(t, 1, sub.Calls())

	select {
	case ev := <-published:
		assert.Equal(t, "rec-7", ev.RecordID)
		assert.Equal(t, sv.SessionID, ev.SessionID)
		assert.Equal(t, "backend-developer", ev.DesiredPosition)
		assert.Equal(t, domain.WorkTypeRemote, ev.WorkType)
		assert.False(t, ev.HasCoverLetter)
	case <-time.After(2 * time.Second):
		t.Fatal("submitted event was not published")
	}

	_, err = m.Restart(ctx, sv.SessionID)
	require.NoError(t, err)
}

func TestSubmit_FailureDoesNotPublish(t *testing.T) {
	sub := newGatedSubmitter(domain.SubmissionResult{Outcome: domain.OutcomePersistFailed, Message: "db down"})
	close(sub.release)
	pub := new(MockPublisher)

	m := newManager(t, sub, pub, time.Minute)
	ctx := context.Background()
	sv, err := m.StartSession(ctx)
	require.NoError(t, err)
	fillAndReachReview(t, m, sv.SessionID)

	_, err = m.Submit(ctx, sv.SessionID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		v, err := m.GetView(ctx, sv.SessionID)
		return err == nil && v.Status.State == domain.SubmissionFailed
	}, 2*time.Second, 10*time.Millisecond)

	view, err := m.GetView(ctx, sv.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Failed to save application: db down", view.Status.Message)
	assert.True(t, view.CanSubmit)
	pub.AssertNotCalled(t, "PublishSubmitted", mock.Anything, mock.Anything)
}

func TestIdleSessionsAreEvicted(t *testing.T) {
	m := newManager(t, newGatedSubmitter(domain.SubmissionResult{}), nil, 30*time.Millisecond)
	sv, err := m.StartSession(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return m.ActiveSessions() == 0 }, 2*time.Second, 10*time.Millisecond)

	_, err = m.GetView(context.Background(), sv.SessionID)
	assertAppError(t, err, http.StatusNotFound)
}

func TestSessionWithSubmissionInFlightIsNotEvicted(t *testing.T) {
	sub := newGatedSubmitter(domain.SubmissionResult{Outcome: domain.OutcomeSuccess, RecordID: "r"})
	m := newManager(t, sub, nil, 80*time.Millisecond)
	ctx := context.Background()
	sv, err := m.StartSession(ctx)
	require.NoError(t, err)
	fillAndReachReview(t, m, sv.SessionID)

	_, err = m.Submit(ctx, sv.SessionID)
	require.NoError(t, err)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, m.ActiveSessions())

	close(sub.release)
	assert.Eventually(t, func() bool { return m.ActiveSessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestShutdownRejectsNewSessions(t *testing.T) {
	m := newManager(t, newGatedSubmitter(domain.SubmissionResult{}), nil, time.Minute)
	require.NoError(t, m.Shutdown(context.Background()))

	_, err := m.StartSession(context.Background())
	assertAppError(t, err, http.StatusServiceUnavailable)
}

func TestSubmitDuringShutdownIsRejected(t *testing.T) {
	sub := newGatedSubmitter(domain.SubmissionResult{Outcome: domain.OutcomeSuccess, RecordID: "r"})
	m := newManager(t, sub, nil, time.Minute)
	ctx := context.Background()

	inFlight, err := m.StartSession(ctx)
	require.NoError(t, err)
	fillAndReachReview(t, m, inFlight.SessionID)
	late, err := m.StartSession(ctx)
	require.NoError(t, err)
	fillAndReachReview(t, m, late.SessionID)

	_, err = m.Submit(ctx, inFlight.SessionID)
	require.NoError(t, err)

	// Shutdown blocks on the gated submission, keeping sessions alive meanwhile
	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- m.Shutdown(context.Background()) }()
	require.Eventually(t, func() bool {
		_, err := m.StartSession(ctx)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	_, err = m.Submit(ctx, late.SessionID)
	assertAppError(t, err, http.StatusServiceUnavailable)
	assert.ErrorIs(t, err, usecase.ErrShuttingDown)

	view, err := m.GetView(ctx, late.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionIdle, view.Status.State)

	close(sub.release)
	require.NoError(t, <-shutdownDone)
	assert.Equal(t, 1, sub.Calls())
}

func TestExportApplications(t *testing.T) {
	repo := new(MockApplicationRepo)
	resume := "resumes/1_cv.pdf"
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("ListSubmitted", mock.Anything, since, usecase.MaxExportRows).Return([]domain.SubmittedApplication{
		{
			ID:        "rec-2",
			CreatedAt: time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
			ApplicationPayload: domain.ApplicationPayload{
				FirstName:       "Jane",
				LastName:        "Doe",
				Email:           "jane@example.com",
				DesiredPosition: "data-analyst",
				TechnicalSkills: []string{"SQL", "Python"},
				Experiences:     []domain.ExperienceEntry{{Company: "Acme", Position: "Analyst", StartDate: "2021-01", Current: true}},
				ResumeFilename:  &resume,
			},
		},
	}, nil).Once()

	data, filename, err := usecase.NewExportUsecase(repo).ExportApplications(context.Background(), since)
	require.NoError(t, err)
	assert.Regexp(t, `^job_applications_\d{8}_\d{6}\.xlsx$`, filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Applications")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SUBMITTED AT", rows[0][0])
	assert.Equal(t, "2026-02-03 10:30", rows[1][0])
	assert.Equal(t, "Jane", rows[1][1])
	assert.Equal(t, "Data Analyst", rows[1][7])
	assert.Contains(t, rows[1], "Analyst @ Acme (2021-01 - present)")
	assert.Contains(t, rows[1], "SQL, Python")
	assert.Contains(t, rows[1], "resumes/1_cv.pdf")
}

func TestExportApplications_RepoError(t *testing.T) {
	repo := new(MockApplicationRepo)
	repo.On("ListSubmitted", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, _, err := usecase.NewExportUsecase(repo).ExportApplications(context.Background(), time.Time{})
	assertAppError(t, err, http.StatusInternalServerError)
}

func TestHealthCheck(t *testing.T) {
	h := usecase.NewHealthUsecase(map[string]usecase.Probe{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("refused") },
		"kafka":    nil,
	})

	got := h.Check(context.Background())
	assert.Equal(t, map[string]string{
		"status":   "degraded",
		"database": "ok",
		"redis":    "unavailable",
		"kafka":    "disabled",
	}, got)
}

type MockConfirmationSender struct {
	mock.Mock
}

func (m *MockConfirmationSender) SendApplicationConfirmation(ctx context.Context, to string, data email.ConfirmationEmailData) error {
	return m.Called(ctx, to, data).Error(0)
}

func TestConfirmationNotifier(t *testing.T) {
	sender := new(MockConfirmationSender)
	sender.On("SendApplicationConfirmation", mock.Anything, "jane@example.com", email.ConfirmationEmailData{
		FirstName: "Jane",
		Position:  "Backend Developer",
		Reference: "rec-1",
	}).Return(nil).Once()

	n := usecase.NewConfirmationNotifier(sender)
	err := n.PublishSubmitted(context.Background(), domain.ApplicationSubmittedEvent{
		RecordID:        "rec-1",
		Email:           " jane@example.com ",
		FirstName:       "Jane",
		DesiredPosition: "backend-developer",
	})
	require.NoError(t, err)

	// no address, nothing to send
	require.NoError(t, n.PublishSubmitted(context.Background(), domain.ApplicationSubmittedEvent{RecordID: "rec-2"}))
	sender.AssertExpectations(t)
}

func TestPublishersTryEveryPublisher(t *testing.T) {
	failing := new(MockPublisher)
	failing.On("PublishSubmitted", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	ok := new(MockPublisher)
	ok.On("PublishSubmitted", mock.Anything, mock.Anything).Return(nil).Once()

	err := usecase.Publishers{failing, ok}.PublishSubmitted(context.Background(), domain.ApplicationSubmittedEvent{RecordID: "rec-1"})
	assert.ErrorContains(t, err, "broker down")
	failing.AssertExpectations(t)
	ok.AssertExpectations(t)
}
