package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nexora-labs/website-backend/config"
	"github.com/nexora-labs/website-backend/internal/contact/domain"
	"github.com/nexora-labs/website-backend/internal/contact/validation"
	"github.com/nexora-labs/website-backend/internal/logging"
	"github.com/nexora-labs/website-backend/internal/mail"
)

const unknown = "unknown"

// Result is the outcome of an accepted submission. Spam submissions are
// accepted too, with Spam set and no SubmissionID.
type Result struct {
	SubmissionID  string
	Spam          bool
	Notifications []NotifyResult
}

// SubmissionService validates, persists and announces contact submissions.
type SubmissionService struct {
	schema *validation.Schema
	store  domain.SubmissionStore
	mailer mail.Dispatcher
	site   config.SiteConfig
	now    func() time.Time
	logOut *log.Logger
}

type Option func(*SubmissionService)

// WithClock overrides the time source used for submittedAt.
func WithClock(now func() time.Time) Option {
	return func(s *SubmissionService) { s.now = now }
}

// WithLogOutput sends service logs to out instead of the standard logger.
func WithLogOutput(out *log.Logger) Option {
	return func(s *SubmissionService) { s.logOut = out }
}

func NewSubmissionService(store domain.SubmissionStore, mailer mail.Dispatcher, site config.SiteConfig, opts ...Option) *SubmissionService {
	s := &SubmissionService{
		schema: validation.NewSchema(site),
		store:  store,
		mailer: mailer,
		site:   site,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one contact form submission through parse, validation, the
// honeypot check, persistence and best-effort notification.
//
// Errors are domain.ErrMalformedRequest, *domain.ValidationError or
// domain.ErrPersistenceFailed. Notification failures never surface here.
func (s *SubmissionService) Submit(ctx context.Context, raw []byte, meta domain.RequestMeta) (*Result, error) {
	logger := logging.New(ctx, s.logOut)

	form, err := s.schema.Parse(raw)
	if err != nil {
		return nil, err
	}

	if form.IsSpam() {
		logger.Warnf("submit_contact", "honeypot triggered, dropping submission ip=%s", ClientIP(meta.ForwardedFor))
		return &Result{Spam: true}, nil
	}

	doc := s.enrich(form, meta)

	id, err := s.store.InsertOne(ctx, domain.CollectionContactSubmissions, doc)
	if err != nil {
		logger.Errorf("insert_submission", "collection=%s email=%s error=%v", domain.CollectionContactSubmissions, doc.Email, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err)
	}
	logger.Infof("submit_contact", "stored submission id=%s locale=%s", id, doc.Locale)

	return &Result{
		SubmissionID:  id,
		Notifications: s.notify(ctx, logger, doc),
	}, nil
}

func (s *SubmissionService) enrich(form *validation.Form, meta domain.RequestMeta) *domain.ContactSubmission {
	ua := strings.TrimSpace(meta.UserAgent)
	if ua == "" {
		ua = unknown
	}
	return &domain.ContactSubmission{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		Company:     form.Company,
		ProjectType: form.ProjectType,
		Budget:      form.Budget,
		Timeline:    form.Timeline,
		Message:     form.Message,
		Locale:      form.Locale,
		SubmittedAt: s.now().UTC(),
		IPAddress:   ClientIP(meta.ForwardedFor),
		UserAgent:   ua,
		Read:        false,
	}
}

// ClientIP returns the first address of an X-Forwarded-For value, or
// "unknown" when there is none.
func ClientIP(forwardedFor string) string {
	first := strings.TrimSpace(strings.SplitN(forwardedFor, ",", 2)[0])
	if first == "" {
		return unknown
	}
	return first
}
