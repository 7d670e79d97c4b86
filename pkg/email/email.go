package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	// From defaults to Username
	From string
}

// EmailService sends applicant notifications via SMTP
type EmailService struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// ConfirmationEmailData holds the data for the application received email
type ConfirmationEmailData struct {
	FirstName string
	Position  string
	Reference string
}

func NewEmailService(cfg SMTPConfig) *EmailService {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &EmailService{cfg: cfg, sendMail: smtp.SendMail}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Application received</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thank you for applying</h1>
        </div>
        <div class="content">
            <p>Hi {{.FirstName}},</p>
            <p>We received your application{{if .Position}} for <strong>{{.Position}}</strong>{{end}}.
               Our team reviews every application and will contact you about next steps.</p>
            <p>Reference: {{.Reference}}</p>
        </div>
        <div class="footer">
            <p>This is an automated message. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`))

// SendApplicationConfirmation tells the applicant their application arrived
func (s *EmailService) SendApplicationConfirmation(ctx context.Context, to string, data ConfirmationEmailData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := s.confirmationMessage(to, data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := s.sendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) confirmationMessage(to string, data ConfirmationEmailData) ([]byte, error) {
	if strings.ContainsAny(to, "\r\n") {
		return nil, fmt.Errorf("invalid recipient address")
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := "Application received"
	if data.Position != "" {
		subject += ": " + data.Position
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != ""
}
