// Package notifier is the outbound notification boundary. Document and
// portal operations never block on it: sends run on their own goroutine
// and failures are logged, not returned.
package notifier

import (
	"fmt"
	"log"
	"net/smtp"
)

// Notifier delivers transactional email (portal invites, receipts).
type Notifier interface {
	Send(to, subject, body string) error
}

// SMTPNotifier sends mail through a plain SMTP relay.
type SMTPNotifier struct {
	Addr string // host:port
	From string
	Auth smtp.Auth
}

func NewSMTPNotifier(addr, from string, auth smtp.Auth) *SMTPNotifier {
	return &SMTPNotifier{Addr: addr, From: from, Auth: auth}
}

func (n *SMTPNotifier) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", n.From, to, subject, body)
	if err := smtp.SendMail(n.Addr, n.Auth, n.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogNotifier is the development fallback when no SMTP relay is configured.
type LogNotifier struct{}

func (LogNotifier) Send(to, subject, _ string) error {
	log.Printf("notifier: would send %q to %s", subject, to)
	return nil
}
