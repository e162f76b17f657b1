// Package mailer sends transactional account mail. Delivery transport is a
// thin concern here; anything beyond plain SMTP belongs to an external
// provider.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"pitchside/api/internal/config"
)

type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

// SMTPMailer sends through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/auth/verify?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf("Hi %s,\r\n\r\nConfirm your email address:\r\n%s\r\n\r\nThe link expires in 24 hours.\r\n", displayName(name), link)
	return m.send(to, "Verify your email", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/auth/reset?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf("Hi %s,\r\n\r\nReset your password:\r\n%s\r\n\r\nThe link expires in 1 hour. If you did not request this, ignore this email.\r\n", displayName(name), link)
	return m.send(to, "Reset your password", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

// LogMailer is the development stand-in: it logs instead of sending, so
// flows can be exercised without a relay.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	m.log.Info().Str("to", to).Str("token", token).Msg("verification email (not sent)")
	return nil
}

func (m *LogMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	m.log.Info().Str("to", to).Str("token", token).Msg("password reset email (not sent)")
	return nil
}
