package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/nexora-labs/website-backend/config"
)

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPDispatcher delivers email through an SMTP relay.
type SMTPDispatcher struct {
	client     sender
	from       string
	adminEmail string
}

// NewSMTPDispatcher builds a dispatcher from the SMTP settings. Mail is sent
// from site.FromEmail and admin notifications go to site.AdminEmail.
func NewSMTPDispatcher(cfg config.SMTPConfig, site config.SiteConfig) (*SMTPDispatcher, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	if site.FromEmail == "" {
		return nil, fmt.Errorf("SITE_FROM_EMAIL is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.DialTimeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.DialTimeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return newSMTPDispatcher(client, site.FromEmail, site.AdminEmail), nil
}

func newSMTPDispatcher(client sender, from, adminEmail string) *SMTPDispatcher {
	return &SMTPDispatcher{client: client, from: from, adminEmail: adminEmail}
}

func (d *SMTPDispatcher) SendEmail(ctx context.Context, email Email) error {
	msg, err := d.message(email.To, email.Subject, email.Text)
	if err != nil {
		return err
	}
	if err := d.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	return nil
}

func (d *SMTPDispatcher) SendAdminNotification(ctx context.Context, subject string, fields []Field) error {
	if d.adminEmail == "" {
		return fmt.Errorf("admin email is not configured")
	}
	msg, err := d.message(d.adminEmail, subject, FormatFields(fields))
	if err != nil {
		return err
	}
	if err := d.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send admin notification: %w", err)
	}
	return nil
}

func (d *SMTPDispatcher) message(to, subject, text string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(d.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	return msg, nil
}
