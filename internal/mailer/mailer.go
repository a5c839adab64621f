// Package mailer delivers rendered messages over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/remexre/nihctfplat/internal/my_errors"
)

type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
	// Insecure downgrades to opportunistic TLS for servers without a valid
	// certificate.
	Insecure bool
}

type Mailer struct {
	client *mail.Client
	from   string
}

func New(cfg Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Pass),
	}
	if cfg.Insecure {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure SMTP client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From}, nil
}

// Send delivers one plain-text message. Transport failures wrap
// ErrMailTransport and are not retried.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", my_errors.ErrMailTransport, err)
	}
	return nil
}
