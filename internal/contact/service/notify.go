package service

import (
	"context"
	"fmt"

	"github.com/nexora-labs/website-backend/internal/contact/domain"
	"github.com/nexora-labs/website-backend/internal/logging"
	"github.com/nexora-labs/website-backend/internal/mail"
)

type NotifyKind string

const (
	NotifyConfirmation NotifyKind = "confirmation"
	NotifyAdmin        NotifyKind = "admin"
)

// NotifyResult records one best-effort send. Err is nil on success.
type NotifyResult struct {
	Kind NotifyKind
	Err  error
}

// notify sends the confirmation and the admin notification one after the
// other. Every failure is logged and recorded, none is returned.
func (s *SubmissionService) notify(ctx context.Context, logger *logging.Logger, doc *domain.ContactSubmission) []NotifyResult {
	return []NotifyResult{
		attempt(logger, NotifyConfirmation, func() error {
			return s.mailer.SendEmail(ctx, confirmationEmail(s.site.Name, s.site.URL, doc))
		}),
		attempt(logger, NotifyAdmin, func() error {
			return s.mailer.SendAdminNotification(ctx, adminSubject(doc), adminFields(doc))
		}),
	}
}

func attempt(logger *logging.Logger, kind NotifyKind, send func() error) (res NotifyResult) {
	res.Kind = kind
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v", r)
			logger.Errorf("notify", "kind=%s error=%v", kind, res.Err)
		}
	}()

	if err := send(); err != nil {
		res.Err = err
		logger.Errorf("notify", "kind=%s error=%v", kind, err)
	}
	return res
}

func confirmationEmail(siteName, siteURL string, doc *domain.ContactSubmission) mail.Email {
	subject := "We received your message: " + orDefault(domain.ProjectLabel(doc.ProjectType), "Inquiry")
	text := fmt.Sprintf(`Hi %s,

Thank you for contacting %s about %s.
We have received your message and will get back to you within one business day.

Best regards,
The %s team
%s
`, doc.FirstName, siteName, orDefault(domain.ProjectLabel(doc.ProjectType), "your project"), siteName, siteURL)

	return mail.Email{To: doc.Email, Subject: subject, Text: text}
}

func adminSubject(doc *domain.ContactSubmission) string {
	return "New contact submission from " + doc.FullName()
}

func adminFields(doc *domain.ContactSubmission) []mail.Field {
	return []mail.Field{
		{Key: "Name", Value: doc.FullName()},
		{Key: "Email", Value: doc.Email},
		{Key: "Company", Value: orDefault(doc.Company, "N/A")},
		{Key: "Project", Value: orDefault(domain.ProjectLabel(doc.ProjectType), "General")},
		{Key: "Budget", Value: orDefault(doc.Budget, "N/A")},
		{Key: "Message", Value: doc.Message},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
