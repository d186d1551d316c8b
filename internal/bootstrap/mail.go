package bootstrap

import (
	"log"

	"github.com/nexora-labs/website-backend/config"
	"github.com/nexora-labs/website-backend/internal/mail"
)

// NewMailer returns the SMTP dispatcher, or a log-only dispatcher when no
// SMTP host is configured.
func NewMailer(cfg *config.Config) (mail.Dispatcher, error) {
	if cfg.SMTP.Host == "" {
		log.Println("Warning: SMTP_HOST not set - emails will be logged, not sent")
		return mail.NewLogDispatcher(nil), nil
	}
	return mail.NewSMTPDispatcher(cfg.SMTP, cfg.Site)
}
