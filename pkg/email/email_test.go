package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendApplicationConfirmation(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "smtp.example.com", Username: "jobs@example.com", Password: "pw"})
	require.True(t, svc.IsConfigured())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	svc.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := svc.SendApplicationConfirmation(context.Background(), "jane@example.com", ConfirmationEmailData{
		FirstName: "Jane <script>",
		Position:  "Backend Developer",
		Reference: "rec-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "jobs@example.com", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Application received: Backend Developer")
	assert.Contains(t, body, "Jane &lt;script&gt;")
	assert.Contains(t, body, "Reference: rec-1")
}

func TestSendApplicationConfirmationErrors(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "smtp.example.com", Username: "u", Password: "p"})
	svc.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := svc.SendApplicationConfirmation(context.Background(), "jane@example.com", ConfirmationEmailData{})
	assert.ErrorContains(t, err, "connection refused")

	err = svc.SendApplicationConfirmation(context.Background(), "a@b.c\r\nBcc: x@y.z", ConfirmationEmailData{})
	assert.Error(t, err)

	assert.False(t, NewEmailService(SMTPConfig{}).IsConfigured())
}
