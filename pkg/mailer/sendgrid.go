package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer sends transactional email.
type Mailer interface {
	Send(toEmail, subject, plainBody, htmlBody string) error
	Enabled() bool
}

// Config holds SendGrid settings.
type Config struct {
	APIKey   string
	Enabled  bool
	From     string
	FromName string
}

type sendgridMailer struct {
	client  *sendgrid.Client
	cfg     Config
	logger  *zap.Logger
	enabled bool
}

// NewSendGridMailer creates a mailer backed by SendGrid. When disabled or
// missing an API key it becomes a no-op that only logs, so notification
// paths never fail in environments without email.
func NewSendGridMailer(cfg Config, logger *zap.Logger) Mailer {
	m := &sendgridMailer{
		cfg:     cfg,
		logger:  logger,
		enabled: cfg.Enabled && cfg.APIKey != "",
	}
	if m.enabled {
		m.client = sendgrid.NewSendClient(cfg.APIKey)
	}
	return m
}

func (m *sendgridMailer) Enabled() bool {
	return m.enabled
}

func (m *sendgridMailer) Send(toEmail, subject, plainBody, htmlBody string) error {
	if !m.enabled {
		m.logger.Info("Email disabled, skipping send",
			zap.String("to", toEmail),
			zap.String("subject", subject))
		return nil
	}

	fromName := m.cfg.FromName
	if fromName == "" {
		fromName = "CiviCode"
	}
	from := mail.NewEmail(fromName, m.cfg.From)
	to := mail.NewEmail("", toEmail)
	if htmlBody == "" {
		htmlBody = plainBody
	}
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email to %s: status %d", toEmail, resp.StatusCode)
	}

	m.logger.Debug("Email sent",
		zap.String("to", toEmail),
		zap.String("subject", subject),
		zap.Int("status", resp.StatusCode))
	return nil
}
