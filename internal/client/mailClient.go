package client

import (
	"context"
	"payment-notify-relay/internal/config"
	"time"

	"github.com/pkg/errors"
	mail "github.com/wneessen/go-mail"
)

// MailClient sends HTML mail through an authenticated SMTP relay.
type MailClient interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

var ErrMailNotConfigured = errors.New("mail relay credentials not configured")

type mailClientImpl struct {
	from     string
	password string
	host     string
	port     int
	timeout  time.Duration
}

func NewMailClient(cfg *config.Mail) MailClient {
	return &mailClientImpl{
		from:     cfg.From,
		password: cfg.Password,
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		timeout:  cfg.Timeout,
	}
}

func (c *mailClientImpl) Send(ctx context.Context, to, subject, htmlBody string) error {
	if c.from == "" || c.password == "" {
		return ErrMailNotConfigured
	}

	msg, err := c.buildMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	// one session per message, the relay connection is not shared between requests
	smtpClient, err := mail.NewClient(c.host, c.clientOptions()...)
	if err != nil {
		return errors.Wrap(err, "create smtp client")
	}

	if err := smtpClient.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "send mail")
	}
	return nil
}

func (c *mailClientImpl) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.from),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if c.timeout > 0 {
		opts = append(opts, mail.WithTimeout(c.timeout))
	}
	return opts
}

func (c *mailClientImpl) buildMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}
	if err := msg.To(to); err != nil {
		return nil, errors.Wrapf(err, "invalid recipient address %q", to)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}
