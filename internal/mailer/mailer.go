package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
)

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

var (
	_ model.Mailer = (*Resend)(nil)
	_ model.Mailer = (*Log)(nil)
)

// Resend delivers mail through the Resend API.
type Resend struct {
	emails emailSender
	from   string
	logger *logger.Logger
}

func NewResend(apiKey, from string, logger *logger.Logger) *Resend {
	client := resend.NewClient(apiKey)
	return NewResendWithSender(client.Emails, from, logger)
}

func NewResendWithSender(emails emailSender, from string, logger *logger.Logger) *Resend {
	return &Resend{
		emails: emails,
		from:   from,
		logger: logger,
	}
}

func (r *Resend) Send(ctx context.Context, mail model.Mail) error {
	resp, err := r.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{mail.To},
		Subject: mail.Subject,
		Html:    mail.HTML,
		Text:    mail.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	r.logger.Debug("Mailer: email sent",
		"id", resp.Id,
		"subject", mail.Subject)

	return nil
}

// Log writes mail to the logger instead of sending it. Used when no mail
// provider is configured.
type Log struct {
	logger *logger.Logger
}

func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, mail model.Mail) error {
	l.logger.Info("Mailer: email not sent, no provider configured",
		"to", mail.To,
		"subject", mail.Subject)
	return nil
}
