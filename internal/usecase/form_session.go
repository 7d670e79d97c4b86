package usecase

import (
	"context"
	"errors"
	"time"

	"go-job-intake/internal/domain"
	"go-job-intake/internal/intake"
)

var errSessionGone = errors.New("session not found or expired")

// formSession owns one FormController. Only the run goroutine touches the
// controller; everyone else sends it closures over cmds.
type formSession struct {
	id   string
	ctrl *intake.FormController
	cmds chan func(*intake.FormController)
	done chan struct{}
}

func newFormSession(id string, ctrl *intake.FormController) *formSession {
	return &formSession{
		id:   id,
		ctrl: ctrl,
		cmds: make(chan func(*intake.FormController)),
		done: make(chan struct{}),
	}
}

// run serves commands until the session idles out or stop is closed.
// A session with a submission in flight never idles out.
func (s *formSession) run(idle time.Duration, stop <-chan struct{}, onExpire func()) {
	defer close(s.done)

	timer := time.NewTimer(idle)
	defer timer.Stop()

	for {
		select {
		case fn := <-s.cmds:
			fn(s.ctrl)
			timer.Reset(idle)
		case <-timer.C:
			if s.ctrl.Status().State == domain.SubmissionInProgress {
				timer.Reset(idle)
				continue
			}
			onExpire()
			return
		case <-stop:
			return
		}
	}
}

// do runs fn on the owner goroutine and waits for its error
func (s *formSession) do(ctx context.Context, fn func(*intake.FormController) error) error {
	errc := make(chan error, 1)
	select {
	case s.cmds <- func(c *intake.FormController) { errc <- fn(c) }:
	case <-s.done:
		return errSessionGone
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post hands fn to the owner without waiting for it to run.
// It reports false when the session is already gone.
func (s *formSession) post(fn func(*intake.FormController)) bool {
	select {
	case s.cmds <- fn:
		return true
	case <-s.done:
		return false
	}
}
