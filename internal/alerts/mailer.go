package alerts

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/sentinel-news/sentinel/internal/config"
)

// Mailer delivers a single alert email.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, htmlBody string) error
}

type smtpMailer struct {
	client *mail.Client
	from   string
}

// NewMailer creates an SMTP mailer from the alerts configuration.
// Authentication is only configured when a username is present.
func NewMailer(cfg *config.AlertsConfig) (Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &smtpMailer{
		client: client,
		from:   cfg.From,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, recipient, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender %s: %w", m.from, err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set recipient %s: %w", recipient, err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	return nil
}
