package usecase

import (
	"context"
	"errors"
	"go-job-intake/internal/domain"
	"go-job-intake/pkg/email"
	"strings"
)

// ConfirmationSender is satisfied by *email.EmailService
type ConfirmationSender interface {
	SendApplicationConfirmation(ctx context.Context, to string, data email.ConfirmationEmailData) error
}

type confirmationNotifier struct {
	sender ConfirmationSender
}

// NewConfirmationNotifier emails the applicant once their application is stored
func NewConfirmationNotifier(sender ConfirmationSender) domain.SubmissionPublisher {
	return &confirmationNotifier{sender: sender}
}

func (n *confirmationNotifier) PublishSubmitted(ctx context.Context, event domain.ApplicationSubmittedEvent) error {
	to := strings.TrimSpace(event.Email)
	if to == "" {
		return nil
	}
	return n.sender.SendApplicationConfirmation(ctx, to, email.ConfirmationEmailData{
		FirstName: strings.TrimSpace(event.FirstName),
		Position:  positionLabel(event.DesiredPosition),
		Reference: event.RecordID,
	})
}

// Publishers fans an event out to every publisher; one failure does not stop the rest
type Publishers []domain.SubmissionPublisher

func (p Publishers) PublishSubmitted(ctx context.Context, event domain.ApplicationSubmittedEvent) error {
	var errs []error
	for _, pub := range p {
		if err := pub.PublishSubmitted(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
