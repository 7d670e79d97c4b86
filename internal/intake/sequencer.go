package intake

import "go-job-intake/internal/domain"

// StepSequencer tracks the current step and gates forward movement on validity.
// Backward movement is never gated.
type StepSequencer struct {
	current int
}

func NewStepSequencer() *StepSequencer {
	return &StepSequencer{}
}

func (s *StepSequencer) Index() int {
	return s.current
}

func (s *StepSequencer) Current() domain.StepID {
	id, _, _ := StepAt(s.current)
	return id
}

func (s *StepSequencer) IsFirst() bool {
	return s.current == 0
}

func (s *StepSequencer) IsLast() bool {
	return s.current == StepCount-1
}

// Advance moves forward one step when the current step is valid for rec.
// It reports whether the step changed.
func (s *StepSequencer) Advance(rec domain.ApplicationRecord) bool {
	if s.IsLast() || !IsStepValid(s.current, rec) {
		return false
	}
	s.current++
	return true
}

// Retreat moves back one step and reports whether the step changed
func (s *StepSequencer) Retreat() bool {
	if s.IsFirst() {
		return false
	}
	s.current--
	return true
}

// ProgressFraction is (index+1)/count
func (s *StepSequencer) ProgressFraction() float64 {
	return float64(s.current+1) / float64(StepCount)
}

func (s *StepSequencer) Reset() {
	s.current = 0
}
