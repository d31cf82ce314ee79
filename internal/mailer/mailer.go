// Package mailer sends transactional email. The SMTP implementation is
// optional; when no SMTP host is configured the application uses the no-op
// mailer and signup proceeds without a welcome mail.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends the signup welcome email.
type Mailer interface {
	SendWelcomeEmail(toEmail, username string) error
}

// SMTPConfig holds the dialer settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay using gomail.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer builds a mailer from cfg.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendWelcomeEmail greets a freshly signed-up user.
func (m *SMTPMailer) SendWelcomeEmail(toEmail, username string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Welcome to WanderLust")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nWelcome to WanderLust! Your account is ready. Log in and start exploring listings.\n", username))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}

// NoopMailer discards all mail.
type NoopMailer struct{}

// SendWelcomeEmail does nothing.
func (NoopMailer) SendWelcomeEmail(toEmail, username string) error { return nil }
