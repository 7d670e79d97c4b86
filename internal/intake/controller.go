package intake

import (
	"context"
	"errors"

	"go-job-intake/internal/domain"
)

var (
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrSessionCompleted     = errors.New("application already submitted; restart to begin a new one")
	ErrNotOnReviewStep      = errors.New("submission is only possible from the review step")
)

// FormController composes the field store, the sequencer and a submitter into
// one form session. It is not safe for concurrent use; callers serialize access.
type FormController struct {
	store     *FieldStore
	sequencer *StepSequencer
	submitter Submitter
	status    domain.SubmissionStatus
	onRender  func(domain.FormView)
}

type ControllerOption func(*FormController)

// WithRenderHook registers a callback invoked with a fresh view after every state change
func WithRenderHook(fn func(domain.FormView)) ControllerOption {
	return func(c *FormController) { c.onRender = fn }
}

func NewFormController(submitter Submitter, opts ...ControllerOption) *FormController {
	c := &FormController{
		store:     NewFieldStore(),
		sequencer: NewStepSequencer(),
		submitter: submitter,
		status:    domain.SubmissionStatus{State: domain.SubmissionIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record returns a snapshot of the current record
func (c *FormController) Record() domain.ApplicationRecord {
	return c.store.Get()
}

func (c *FormController) Status() domain.SubmissionStatus {
	return c.status
}

// Apply runs a command against the current record and merges its patch
func (c *FormController) Apply(cmd Command) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	patch, err := cmd(c.store.Get())
	if err != nil {
		return err
	}
	c.store.Merge(patch)
	c.render()
	return nil
}

// Advance moves to the next step if the current one is valid.
// A blocked advance is not an error; the bool reports whether the step changed.
func (c *FormController) Advance() (bool, error) {
	if err := c.checkEditable(); err != nil {
		return false, err
	}
	moved := c.sequencer.Advance(c.store.Get())
	if moved {
		c.render()
	}
	return moved, nil
}

func (c *FormController) Retreat() (bool, error) {
	if err := c.checkEditable(); err != nil {
		return false, err
	}
	moved := c.sequencer.Retreat()
	if moved {
		c.render()
	}
	return moved, nil
}

// BeginSubmit marks the session in progress and returns the snapshot to submit.
// The caller must hand the result of submitting it to CompleteSubmit.
func (c *FormController) BeginSubmit() (domain.ApplicationRecord, error) {
	if err := c.checkEditable(); err != nil {
		return domain.ApplicationRecord{}, err
	}
	if !c.sequencer.IsLast() {
		return domain.ApplicationRecord{}, ErrNotOnReviewStep
	}
	c.status = domain.SubmissionStatus{State: domain.SubmissionInProgress}
	c.render()
	return c.store.Get(), nil
}

// CompleteSubmit applies a submission outcome. Success discards the record and
// returns to the first step; any failure keeps the record and re-enables submit.
func (c *FormController) CompleteSubmit(result domain.SubmissionResult) {
	if c.status.State != domain.SubmissionInProgress {
		return
	}
	res := result
	if result.OK() {
		c.store.Reset()
		c.sequencer.Reset()
		c.status = domain.SubmissionStatus{State: domain.SubmissionSucceeded, Message: result.UserMessage(), Result: &res}
	} else {
		c.status = domain.SubmissionStatus{State: domain.SubmissionFailed, Message: result.UserMessage(), Result: &res}
	}
	c.render()
}

// Submit runs a whole submission synchronously
func (c *FormController) Submit(ctx context.Context) (domain.SubmissionResult, error) {
	rec, err := c.BeginSubmit()
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	result := c.submitter.Submit(ctx, rec)
	c.CompleteSubmit(result)
	return result, nil
}

// Restart starts a fresh application. Not allowed while a submission is in flight.
func (c *FormController) Restart() error {
	if c.status.State == domain.SubmissionInProgress {
		return ErrSubmissionInProgress
	}
	c.store.Reset()
	c.sequencer.Reset()
	c.status = domain.SubmissionStatus{State: domain.SubmissionIdle}
	c.render()
	return nil
}

// View builds the render model. Step validity is recomputed on every call.
func (c *FormController) View() domain.FormView {
	rec := c.store.Get()
	index := c.sequencer.Index()
	stepValid := IsStepValid(index, rec)
	busy := c.status.State == domain.SubmissionInProgress
	done := c.status.State == domain.SubmissionSucceeded

	summaries := make([]domain.StepSummary, 0, StepCount)
	for i := 0; i < StepCount; i++ {
		id, title, _ := StepAt(i)
		summaries = append(summaries, domain.StepSummary{
			ID:      id,
			Title:   title,
			Valid:   IsStepValid(i, rec),
			Current: i == index,
		})
	}

	return domain.FormView{
		Step:       c.sequencer.Current(),
		StepIndex:  index,
		StepCount:  StepCount,
		StepValid:  stepValid,
		Progress:   c.sequencer.ProgressFraction(),
		CanAdvance: !busy && !done && !c.sequencer.IsLast() && stepValid,
		CanRetreat: !busy && !done && !c.sequencer.IsFirst(),
		CanSubmit:  !busy && !done && c.sequencer.IsLast() && stepValid,
		Steps:      summaries,
		Status:     c.status,
		Record:     rec,
	}
}

func (c *FormController) checkEditable() error {
	switch c.status.State {
	case domain.SubmissionInProgress:
		return ErrSubmissionInProgress
	case domain.SubmissionSucceeded:
		return ErrSessionCompleted
	}
	return nil
}

func (c *FormController) render() {
	if c.onRender != nil {
		c.onRender(c.View())
	}
}
