package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/teraclinic/clinic-api/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPService builds the gomail-backed sender.
func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAccountRecovery(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received a request to recover access to your clinic account. "+
			"If this was you, follow the instructions sent separately by your clinic administrator. "+
			"If you did not request this, you can ignore this message.\n",
		name,
	)
	return s.send(to, "Account recovery", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour clinic workspace is ready. You can sign in with this email address.\n", name)
	return s.send(to, "Welcome", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q mail: %w", subject, err)
	}
	return nil
}
