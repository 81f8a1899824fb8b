package utils

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers notification e-mails.
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, textContent, htmlContent string) error
}

// SendGridMailer sends e-mail through the SendGrid API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *zap.Logger
}

// NewSendGridMailer returns a mailer sending as fromAddress.
func NewSendGridMailer(apiKey, fromAddress string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("PhoneSwap", fromAddress),
		logger: logger,
	}
}

// Send sends a single e-mail.
func (m *SendGridMailer) Send(_ context.Context, toName, toEmail, subject, textContent, htmlContent string) error {
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(m.from, subject, to, textContent, htmlContent)

	response, err := m.client.Send(message)
	if err != nil {
		m.logger.Error("send email", zap.String("to", toEmail), zap.Error(err))
		return err
	}
	if response.StatusCode >= 400 {
		m.logger.Error("sendgrid api error", zap.Int("status", response.StatusCode), zap.String("body", response.Body))
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	m.logger.Info("email sent", zap.String("to", toEmail), zap.Int("status", response.StatusCode))
	return nil
}

// LogMailer only logs messages. It is used when no SendGrid key is configured.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) Send(_ context.Context, _, toEmail, subject, _, _ string) error {
	m.Logger.Info("email delivery disabled", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}
