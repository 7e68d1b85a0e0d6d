package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"arxivdigest/internal/ports"
)

// Config wires everything required to reach the mail relay.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	To   string
	From string
}

// SMTPMailer sends the HTML digest to one configured recipient over an
// authenticated STARTTLS connection.
type SMTPMailer struct {
	cfg Config
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// New builds a mailer from configuration. From falls back to User.
func New(cfg Config) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message. Any transport or auth failure is returned
// as-is; it is fatal to the notification step only.
func (m *SMTPMailer) Send(ctx context.Context, subject, htmlBody string) error {
	if m.cfg.Host == "" || m.cfg.To == "" {
		return fmt.Errorf("smtp mailer misconfigured")
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Pass),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send digest mail: %w", err)
	}
	return nil
}
