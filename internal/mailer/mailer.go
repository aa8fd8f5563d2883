package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/blog-platform-api/internal/config"
	"github.com/rs/zerolog"
)

// Mailer sends plain-text email
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP mailer, or a logging one when no SMTP host is configured
func New(cfg config.MailConfig, log zerolog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(log)
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer delivers mail through an SMTP relay with PLAIN auth
type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.Sender,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes outgoing mail to the log. Used in development.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("Email not sent, SMTP disabled")
	return nil
}

// Async sends in the background. Failures are logged and otherwise ignored.
func Async(m Mailer, log zerolog.Logger, to, subject, body string) {
	go func() {
		if err := m.Send(context.Background(), to, subject, body); err != nil {
			log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send email")
		}
	}()
}
