package notify

import (
	"context"
	"fmt"

	"bharatparcel/config"

	"github.com/wneessen/go-mail"
)

type EmailNotifier struct {
	from string
	send func(ctx context.Context, msgs ...*mail.Msg) error
}

func NewEmailNotifier(cfg *config.Config) (*EmailNotifier, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &EmailNotifier{from: from, send: client.DialAndSendWithContext}, nil
}

func (n *EmailNotifier) Send(ctx context.Context, to string, msg Message) error {
	m, err := n.build(to, msg)
	if err != nil {
		return err
	}
	if err := n.send(ctx, m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (n *EmailNotifier) build(to string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.Body)
	return m, nil
}
