// Package mailer renders the enumerated email templates and delivers them
// over SMTP. Callers treat delivery failure as non-fatal: the business
// operation that triggered the email has already been persisted.
package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// Mailer delivers a rendered template to a recipient and returns the
// transport message id.
type Mailer interface {
	Send(ctx context.Context, to, templateName string, data map[string]any) (string, error)
}

// SMTPConfig carries the transport settings read from the environment.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends mail through an authenticated SMTP relay.
type SMTP struct {
	client *mail.Client
	from   string
}

// NewSMTP builds the transport client. The connection is dialed per send,
// not held open.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTP{client: client, from: cfg.From}, nil
}

// Send validates the template name, renders the body and submits the
// message. The template check happens before any network activity so a
// programmer error fails fast.
func (s *SMTP) Send(ctx context.Context, to, templateName string, data map[string]any) (string, error) {
	subject, html, err := Render(templateName, data)
	if err != nil {
		return "", err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return "", fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextHTML, html)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}

	messageID := ""
	if ids := msg.GetGenHeader(mail.HeaderMessageID); len(ids) > 0 {
		messageID = ids[0]
	}
	return messageID, nil
}
