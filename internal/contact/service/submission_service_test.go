package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora-labs/website-backend/config"
	"github.com/nexora-labs/website-backend/internal/contact/domain"
	"github.com/nexora-labs/website-backend/internal/logging"
	"github.com/nexora-labs/website-backend/internal/mail"
)

type fakeStore struct {
	collection string
	docs       []*domain.ContactSubmission
	err        error
}

func (f *fakeStore) InsertOne(_ context.Context, collection string, doc *domain.ContactSubmission) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.collection = collection
	f.docs = append(f.docs, doc)
	return "sub-1", nil
}

type fakeMailer struct {
	emails      []mail.Email
	adminCalls  []string
	adminFields [][]mail.Field
	emailErr    error
	adminErr    error
	panicOnSend bool
}

func (f *fakeMailer) SendEmail(_ context.Context, email mail.Email) error {
	if f.panicOnSend {
		panic("smtp client is nil")
	}
	f.emails = append(f.emails, email)
	return f.emailErr
}

func (f *fakeMailer) SendAdminNotification(_ context.Context, subject string, fields []mail.Field) error {
	f.adminCalls = append(f.adminCalls, subject)
	f.adminFields = append(f.adminFields, fields)
	return f.adminErr
}

var testSite = config.SiteConfig{
	Name:             "Nexora Labs",
	URL:              "https://nexoralabs.lk",
	DefaultLocale:    "en",
	SupportedLocales: []string{"en", "si", "ta", "ar"},
}

const scenarioA = `{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","message":"Interested in a website rebuild for Q3."}`

func newTestService(store *fakeStore, mailer *fakeMailer, logs *bytes.Buffer) *SubmissionService {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewSubmissionService(store, mailer, testSite,
		WithClock(func() time.Time { return fixed }),
		WithLogOutput(log.New(logs, "", 0)),
	)
}

func TestSubmit_ScenarioA(t *testing.T) {
	store, mailer, logs := &fakeStore{}, &fakeMailer{}, &bytes.Buffer{}
	svc := newTestService(store, mailer, logs)

	res, err := svc.Submit(context.Background(), []byte(scenarioA), domain.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, "sub-1", res.SubmissionID)
	assert.False(t, res.Spam)
	assert.Equal(t, domain.CollectionContactSubmissions, store.collection)
	require.Len(t, store.docs, 1)

	doc := store.docs[0]
	assert.Empty(t, doc.ProjectType)
	assert.Equal(t, "en", doc.Locale)
	assert.False(t, doc.Read)
	assert.Equal(t, "unknown", doc.IPAddress)
	assert.Equal(t, "unknown", doc.UserAgent)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), doc.SubmittedAt)
}

func TestSubmit_Enrichment(t *testing.T) {
	store := &fakeStore{}
	start := time.Now()
	svc := NewSubmissionService(store, &fakeMailer{}, testSite, WithLogOutput(log.New(&bytes.Buffer{}, "", 0)))

	_, err := svc.Submit(context.Background(), []byte(scenarioA), domain.RequestMeta{
		ForwardedFor: "203.0.113.7, 10.0.0.1",
		UserAgent:    "Mozilla/5.0",
	})
	require.NoError(t, err)
	require.Len(t, store.docs, 1)

	doc := store.docs[0]
	assert.Equal(t, "203.0.113.7", doc.IPAddress)
	assert.Equal(t, "Mozilla/5.0", doc.UserAgent)
	assert.False(t, doc.SubmittedAt.Before(start.UTC().Truncate(time.Second)))
	assert.False(t, doc.Read)
}

func TestSubmit_Honeypot(t *testing.T) {
	store, mailer, logs := &fakeStore{}, &fakeMailer{}, &bytes.Buffer{}
	svc := newTestService(store, mailer, logs)

	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","message":"Interested in a website rebuild for Q3.","website":"http://spam.example"}`
	res, err := svc.Submit(context.Background(), []byte(body), domain.RequestMeta{ForwardedFor: "198.51.100.2"})
	require.NoError(t, err)

	assert.True(t, res.Spam)
	assert.Empty(t, res.SubmissionID)
	assert.Empty(t, store.docs)
	assert.Empty(t, mailer.emails)
	assert.Empty(t, mailer.adminCalls)
	assert.Contains(t, logs.String(), "honeypot triggered")
	assert.Contains(t, logs.String(), "ip=198.51.100.2")
}

func TestSubmit_ValidationNeverTouchesStore(t *testing.T) {
	cases := map[string]string{
		"missing firstName": `{"lastName":"Doe","email":"jane@x.com","message":"long enough message"}`,
		"missing lastName":  `{"firstName":"Jane","email":"jane@x.com","message":"long enough message"}`,
		"missing email":     `{"firstName":"Jane","lastName":"Doe","message":"long enough message"}`,
		"missing message":   `{"firstName":"Jane","lastName":"Doe","email":"jane@x.com"}`,
		"short message":     `{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","message":"too short"}`,
		"bad email":         `{"firstName":"Jane","lastName":"Doe","email":"jane@","message":"long enough message"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store, mailer := &fakeStore{}, &fakeMailer{}
			svc := newTestService(store, mailer, &bytes.Buffer{})

			_, err := svc.Submit(context.Background(), []byte(body), domain.RequestMeta{})

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Details, 1)
			assert.Empty(t, store.docs)
			assert.Empty(t, mailer.emails)
		})
	}
}

func TestSubmit_ScenarioC(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeMailer{}, &bytes.Buffer{})

	_, err := svc.Submit(context.Background(), []byte(`{"firstName":"","lastName":"Doe","email":"not-an-email","message":"hi"}`), domain.RequestMeta{})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Details, 3)
	assert.Equal(t, "firstName", verr.Details[0].Field)
	assert.Equal(t, "email", verr.Details[1].Field)
	assert.Equal(t, "message", verr.Details[2].Field)
	assert.Empty(t, store.docs)
}

func TestSubmit_MalformedJSON(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeMailer{}, &bytes.Buffer{})

	_, err := svc.Submit(context.Background(), []byte(`{"firstName":`), domain.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrMalformedRequest)
	assert.Empty(t, store.docs)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	dbErr := errors.New("deadline exceeded")
	store, mailer, logs := &fakeStore{err: dbErr}, &fakeMailer{}, &bytes.Buffer{}
	svc := newTestService(store, mailer, logs)

	ctx := logging.WithRequestID(context.Background(), "rid-7")
	_, err := svc.Submit(ctx, []byte(scenarioA), domain.RequestMeta{})

	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, mailer.emails, "no notification after a failed insert")
	assert.Empty(t, mailer.adminCalls)
	assert.Contains(t, logs.String(), "request_id=rid-7 operation=insert_submission")
}

func TestSubmit_NotificationFailuresAreSwallowed(t *testing.T) {
	store := &fakeStore{}
	mailer := &fakeMailer{emailErr: errors.New("mailbox unavailable"), adminErr: errors.New("relay denied")}
	logs := &bytes.Buffer{}
	svc := newTestService(store, mailer, logs)

	res, err := svc.Submit(context.Background(), []byte(scenarioA), domain.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, "sub-1", res.SubmissionID)
	assert.Len(t, store.docs, 1)
	require.Len(t, res.Notifications, 2)
	assert.Equal(t, NotifyConfirmation, res.Notifications[0].Kind)
	assert.EqualError(t, res.Notifications[0].Err, "mailbox unavailable")
	assert.Equal(t, NotifyAdmin, res.Notifications[1].Kind)
	assert.EqualError(t, res.Notifications[1].Err, "relay denied")
	assert.Contains(t, logs.String(), "kind=confirmation error=mailbox unavailable")
	assert.Contains(t, logs.String(), "kind=admin error=relay denied")
}

func TestSubmit_NotificationPanicIsRecovered(t *testing.T) {
	store := &fakeStore{}
	mailer := &fakeMailer{panicOnSend: true}
	svc := newTestService(store, mailer, &bytes.Buffer{})

	res, err := svc.Submit(context.Background(), []byte(scenarioA), domain.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, "sub-1", res.SubmissionID)
	require.Len(t, res.Notifications, 2)
	assert.Error(t, res.Notifications[0].Err)
	assert.NoError(t, res.Notifications[1].Err, "admin notification still attempted")
	assert.Len(t, mailer.adminCalls, 1)
}

func TestSubmit_EmailContents(t *testing.T) {
	store, mailer := &fakeStore{}, &fakeMailer{}
	svc := newTestService(store, mailer, &bytes.Buffer{})

	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","company":"Acme","projectType":"web-app","budget":"$5k-$10k","message":"Interested in a website rebuild for Q3.","locale":"si"}`
	_, err := svc.Submit(context.Background(), []byte(body), domain.RequestMeta{})
	require.NoError(t, err)

	require.Len(t, mailer.emails, 1)
	email := mailer.emails[0]
	assert.Equal(t, "jane@x.com", email.To)
	assert.Equal(t, "We received your message: Web Application", email.Subject)
	assert.Contains(t, email.Text, "Hi Jane,")
	assert.Contains(t, email.Text, "Thank you for contacting Nexora Labs about Web Application.")

	require.Len(t, mailer.adminCalls, 1)
	assert.Equal(t, "New contact submission from Jane Doe", mailer.adminCalls[0])
	assert.Equal(t, []mail.Field{
		{Key: "Name", Value: "Jane Doe"},
		{Key: "Email", Value: "jane@x.com"},
		{Key: "Company", Value: "Acme"},
		{Key: "Project", Value: "Web Application"},
		{Key: "Budget", Value: "$5k-$10k"},
		{Key: "Message", Value: "Interested in a website rebuild for Q3."},
	}, mailer.adminFields[0])

	assert.Equal(t, "si", store.docs[0].Locale)
}

func TestSubmit_EmailFallbacks(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(&fakeStore{}, mailer, &bytes.Buffer{})

	_, err := svc.Submit(context.Background(), []byte(scenarioA), domain.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, "We received your message: Inquiry", mailer.emails[0].Subject)
	assert.Contains(t, mailer.emails[0].Text, "about your project.")
	assert.Equal(t, []mail.Field{
		{Key: "Name", Value: "Jane Doe"},
		{Key: "Email", Value: "jane@x.com"},
		{Key: "Company", Value: "N/A"},
		{Key: "Project", Value: "General"},
		{Key: "Budget", Value: "N/A"},
		{Key: "Message", Value: "Interested in a website rebuild for Q3."},
	}, mailer.adminFields[0])
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "unknown", ClientIP(""))
	assert.Equal(t, "unknown", ClientIP("  "))
	assert.Equal(t, "1.2.3.4", ClientIP("1.2.3.4"))
	assert.Equal(t, "1.2.3.4", ClientIP(" 1.2.3.4 , 5.6.7.8"))
}
