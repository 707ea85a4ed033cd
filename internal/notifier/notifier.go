package notifier

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// EmailNotifier delivers account lifecycle emails over SMTP. The lifecycle
// service treats it as fire-and-forget: a delivery failure never undoes a
// persisted state change.
type EmailNotifier struct {
	config *smtpConfig
	dialer *gomail.Dialer
}

// Email represents an outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// NewEmailNotifier creates an EmailNotifier configured from the environment.
func NewEmailNotifier(logger *zerolog.Logger) *EmailNotifier {
	cfg := newSMTPConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate notifier configuration")
	}

	dialer := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
	)

	return &EmailNotifier{
		config: cfg,
		dialer: dialer,
	}
}

// Send sends a single email.
func (n *EmailNotifier) Send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.config.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}

	return n.dialer.DialAndSend(msg)
}

// SendSimple sends a plain text email.
func (n *EmailNotifier) SendSimple(to []string, subject, body string) error {
	return n.Send(Email{
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

// SendHTML sends an HTML email.
func (n *EmailNotifier) SendHTML(to []string, subject, htmlBody string) error {
	return n.Send(Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// smtpConfig holds SMTP configuration for sending emails.
type smtpConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// newSMTPConfig creates an smtpConfig instance from environment variables.
func newSMTPConfig(logger *zerolog.Logger) *smtpConfig {
	cfg, err := env.ParseAs[smtpConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the notifier configuration is valid.
func (c *smtpConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
