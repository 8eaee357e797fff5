package smtp

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"nr6/internal/domain"
	"nr6/internal/email"
	"nr6/internal/port"
)

// dialer is the part of gomail.Dialer the sender uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	dialer      dialer
	from        string
	fromName    string
	frontendURL string
}

// NewSMTPSender creates a Notifier that delivers through an SMTP relay.
func NewSMTPSender(host string, port int, user, password, fromAddress, fromName, frontendURL string) port.Notifier {
	return &smtpSender{
		dialer:      gomail.NewDialer(host, port, user, password),
		from:        fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}
}

func (s *smtpSender) Send(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.buildMessage(n)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send %s: %w", n.Kind, err)
	}
	return nil
}

func (s *smtpSender) buildMessage(n domain.Notification) (*gomail.Message, error) {
	msg, err := email.Render(n, s.frontendURL)
	if err != nil {
		return nil, err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)
	return m, nil
}
