package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-job-intake/internal/domain"
	"go-job-intake/internal/intake"
	"go-job-intake/pkg/apperror"
	"go-job-intake/pkg/auth"
	"go-job-intake/pkg/logger"
)

var ErrShuttingDown = errors.New("intake service is shutting down")

// SessionManager keeps every open form session in memory. Each session is
// served by its own goroutine; submissions run on a separate goroutine and
// report back to the owner when they finish.
type SessionManager struct {
	submitter   intake.Submitter
	publisher   domain.SubmissionPublisher
	tokens      *auth.SessionTokens
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*formSession
	closed   bool

	stop        chan struct{}
	submissions sync.WaitGroup
}

var _ domain.IntakeUsecase = (*SessionManager)(nil)

// NewIntakeUsecase creates the session manager. publisher may be nil when
// submission events are not configured.
func NewIntakeUsecase(submitter intake.Submitter, publisher domain.SubmissionPublisher, tokens *auth.SessionTokens, idleTimeout time.Duration) *SessionManager {
	return &SessionManager{
		submitter:   submitter,
		publisher:   publisher,
		tokens:      tokens,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*formSession),
		stop:        make(chan struct{}),
	}
}

func (m *SessionManager) StartSession(ctx context.Context) (*domain.SessionView, error) {
	id := uuid.NewString()
	token, expiresAt, err := m.tokens.Issue(id, m.now())
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s := newFormSession(id, intake.NewFormController(m.submitter))

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, apperror.New(http.StatusServiceUnavailable, "Service is shutting down", ErrShuttingDown)
	}
	m.sessions[id] = s
	m.mu.Unlock()

	go s.run(m.idleTimeout, m.stop, func() { m.evict(id) })

	view, err := m.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Form session started", zap.String("session_id", id))
	return &domain.SessionView{SessionID: id, Token: token, ExpiresAt: expiresAt, View: view}, nil
}

// ActiveSessions is the number of sessions currently held in memory
func (m *SessionManager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *SessionManager) GetView(ctx context.Context, sessionID string) (*domain.FormView, error) {
	return m.exec(ctx, sessionID, func(*formSession, *intake.FormController) error { return nil })
}

func (m *SessionManager) UpdateFields(ctx context.Context, sessionID string, patch domain.RecordPatch) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.SetFields(patch))
}

func (m *SessionManager) AddExperience(ctx context.Context, sessionID string) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.AddExperience())
}

func (m *SessionManager) UpdateExperience(ctx context.Context, sessionID, entryID string, changes domain.ExperienceChanges) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.UpdateExperience(entryID, changes))
}

func (m *SessionManager) SetExperienceCurrent(ctx context.Context, sessionID, entryID string, current bool) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.SetExperienceCurrent(entryID, current))
}

func (m *SessionManager) RemoveExperience(ctx context.Context, sessionID, entryID string) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.RemoveExperience(entryID))
}

func (m *SessionManager) AddEducation(ctx context.Context, sessionID string) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.AddEducation())
}

func (m *SessionManager) UpdateEducation(ctx context.Context, sessionID, entryID string, changes domain.EducationChanges) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.UpdateEducation(entryID, changes))
}

func (m *SessionManager) RemoveEducation(ctx context.Context, sessionID, entryID string) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.RemoveEducation(entryID))
}

func (m *SessionManager) AddSkill(ctx context.Context, sessionID string, kind domain.SkillKind, skill string) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.AddSkill(kind, skill))
}

func (m *SessionManager) RemoveSkill(ctx context.Context, sessionID string, kind domain.SkillKind, skill string) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.RemoveSkill(kind, skill))
}

func (m *SessionManager) AddLanguage(ctx context.Context, sessionID, language string, proficiency domain.Proficiency) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.AddLanguage(language, proficiency))
}

func (m *SessionManager) RemoveLanguage(ctx context.Context, sessionID, language string) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.RemoveLanguage(language))
}

func (m *SessionManager) AttachDocument(ctx context.Context, sessionID string, kind domain.DocumentKind, doc *domain.Document) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.AttachDocument(kind, doc))
}

func (m *SessionManager) RemoveDocument(ctx context.Context, sessionID string, kind domain.DocumentKind) (*domain.FormView, error) {
	return m.apply(ctx, sessionID, intake.RemoveDocument(kind))
}

func (m *SessionManager) Next(ctx context.Context, sessionID string) (*domain.FormView, error) {
	return m.exec(ctx, sessionID, func(_ *formSession, c *intake.FormController) error {
		_, err := c.Advance()
		return err
	})
}

func (m *SessionManager) Previous(ctx context.Context, sessionID string) (*domain.FormView, error) {
	return m.exec(ctx, sessionID, func(_ *formSession, c *intake.FormController) error {
		_, err := c.Retreat()
		return err
	})
}

// Submit marks the session in progress and returns at once. The outcome shows
// up in the session view once the submission goroutine reports back.
func (m *SessionManager) Submit(ctx context.Context, sessionID string) (*domain.FormView, error) {
	return m.exec(ctx, sessionID, func(s *formSession, c *intake.FormController) error {
		// Add must not race with Shutdown's Wait
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			return ErrShuttingDown
		}
		rec, err := c.BeginSubmit()
		if err != nil {
			return err
		}
		m.submissions.Add(1)
		go m.runSubmission(s, rec)
		return nil
	})
}

func (m *SessionManager) Restart(ctx context.Context, sessionID string) (*domain.FormView, error) {
	return m.exec(ctx, sessionID, func(_ *formSession, c *intake.FormController) error {
		return c.Restart()
	})
}

// Shutdown stops accepting sessions, waits for in-flight submissions until ctx
// is done, then stops every session goroutine.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		m.submissions.Wait()
		close(finished)
	}()

	var err error
	select {
	case <-finished:
	case <-ctx.Done():
		err = ctx.Err()
		logger.Log.Warn("Shutting down with submissions still in flight", zap.Error(err))
	}

	close(m.stop)
	return err
}

// runSubmission executes outside the owner goroutine so the session keeps
// answering reads. There is no cancellation: it runs until the submitter returns.
func (m *SessionManager) runSubmission(s *formSession, rec domain.ApplicationRecord) {
	defer m.submissions.Done()

	result := m.submitter.Submit(context.Background(), rec)

	if !s.post(func(c *intake.FormController) { c.CompleteSubmit(result) }) {
		logger.Log.Warn("Session closed before submission finished",
			zap.String("session_id", s.id),
			zap.String("outcome", string(result.Outcome)),
		)
	}

	if result.OK() {
		m.publishSubmitted(s.id, rec, result)
	}
}

func (m *SessionManager) publishSubmitted(sessionID string, rec domain.ApplicationRecord, result domain.SubmissionResult) {
	if m.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.publisher.PublishSubmitted(ctx, domain.ApplicationSubmittedEvent{
		Type:            domain.SubmittedEventType,
		RecordID:        result.RecordID,
		SessionID:       sessionID,
		Email:           rec.Email,
		FirstName:       rec.FirstName,
		DesiredPosition: rec.DesiredPosition,
		WorkType:        rec.WorkType,
		HasCoverLetter:  rec.CoverLetter != nil,
		SubmittedAt:     m.now().UTC(),
	})
	if err != nil {
		logger.Log.Error("Failed to publish submitted event", zap.Error(err), zap.String("record_id", result.RecordID))
	}
}

func (m *SessionManager) apply(ctx context.Context, sessionID string, cmd intake.Command) (*domain.FormView, error) {
	return m.exec(ctx, sessionID, func(_ *formSession, c *intake.FormController) error {
		return c.Apply(cmd)
	})
}

// exec runs fn on the session's owner goroutine and returns the resulting view.
// The view is returned even when fn fails so callers can re-render.
func (m *SessionManager) exec(ctx context.Context, sessionID string, fn func(*formSession, *intake.FormController) error) (*domain.FormView, error) {
	s, ok := m.lookup(sessionID)
	if !ok {
		return nil, mapIntakeError(errSessionGone)
	}

	var view domain.FormView
	err := s.do(ctx, func(c *intake.FormController) error {
		err := fn(s, c)
		view = c.View()
		return err
	})
	if err != nil {
		return nil, mapIntakeError(err)
	}
	return &view, nil
}

func (m *SessionManager) lookup(sessionID string) (*formSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

func (m *SessionManager) evict(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	logger.Log.Info("Form session expired", zap.String("session_id", sessionID))
}

func mapIntakeError(err error) error {
	switch {
	case errors.Is(err, errSessionGone):
		return apperror.NotFound("Session not found or expired")
	case errors.Is(err, ErrShuttingDown):
		return apperror.New(http.StatusServiceUnavailable, "Service is shutting down", err)
	case errors.Is(err, intake.ErrSubmissionInProgress):
		return apperror.Conflict("A submission is already in progress", err)
	case errors.Is(err, intake.ErrSessionCompleted):
		return apperror.Conflict("Application already submitted; restart to begin a new one", err)
	case errors.Is(err, intake.ErrNotOnReviewStep):
		return apperror.Conflict("Submission is only possible from the review step", err)
	case errors.Is(err, intake.ErrEntryNotFound):
		return apperror.NotFound("Entry not found")
	case errors.Is(err, intake.ErrDuplicateSkill):
		return apperror.Conflict("Skill already added", err)
	case errors.Is(err, intake.ErrDuplicateLanguage):
		return apperror.Conflict("Language already added", err)
	case errors.Is(err, intake.ErrEmptyValue):
		return apperror.BadRequest("Value must not be empty")
	case errors.Is(err, intake.ErrInvalidProficiency):
		return apperror.BadRequest("Proficiency must be one of: beginner, intermediate, advanced, native")
	case errors.Is(err, intake.ErrUnknownSkillKind):
		return apperror.BadRequest("Skill kind must be technical or soft")
	case errors.Is(err, intake.ErrUnknownDocumentKind):
		return apperror.BadRequest("Document kind must be resume or cover_letter")
	case errors.Is(err, intake.ErrEndDateWhileCurrent):
		return apperror.BadRequest("End date cannot be set while the position is current")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperror.New(http.StatusServiceUnavailable, "Request cancelled", err)
	}
	return apperror.Internal(err)
}
