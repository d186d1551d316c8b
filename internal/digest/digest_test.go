package digest

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora-labs/website-backend/internal/mail"
)

type stubCounter struct {
	since     time.Time
	newCount  int
	unread    int
	err       error
	unreadErr error
}

func (s *stubCounter) CountSince(_ context.Context, _ string, since time.Time) (int, error) {
	s.since = since
	return s.newCount, s.err
}

func (s *stubCounter) CountUnread(context.Context, string) (int, error) {
	return s.unread, s.unreadErr
}

type recordingMailer struct {
	subject string
	fields  []mail.Field
	calls   int
	err     error
}

func (m *recordingMailer) SendEmail(context.Context, mail.Email) error { return nil }

func (m *recordingMailer) SendAdminNotification(_ context.Context, subject string, fields []mail.Field) error {
	m.calls++
	m.subject = subject
	m.fields = fields
	return m.err
}

func newTestJob(c *stubCounter, m *recordingMailer, logs *bytes.Buffer) *Job {
	j := NewJob(c, m, log.New(logs, "", 0))
	j.now = func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) }
	return j
}

func TestJob_SendsDigest(t *testing.T) {
	counter := &stubCounter{newCount: 3, unread: 5}
	mailer := &recordingMailer{}
	job := newTestJob(counter, mailer, &bytes.Buffer{})

	r, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, r.Sent)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), counter.since)
	assert.Equal(t, "Daily contact digest", mailer.subject)
	assert.Equal(t, []mail.Field{
		{Key: "Period", Value: "2026-03-01 08:00 - 2026-03-02 08:00 UTC"},
		{Key: "New submissions", Value: "3"},
		{Key: "Unread", Value: "5"},
	}, mailer.fields)
}

func TestJob_SkipsWhenNothingNew(t *testing.T) {
	mailer := &recordingMailer{}
	logs := &bytes.Buffer{}
	job := newTestJob(&stubCounter{}, mailer, logs)

	r, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, r.Sent)
	assert.Zero(t, mailer.calls)
	assert.Contains(t, logs.String(), "skipping email")
}

func TestJob_Errors(t *testing.T) {
	t.Run("count failure", func(t *testing.T) {
		_, err := newTestJob(&stubCounter{err: errors.New("timeout")}, &recordingMailer{}, &bytes.Buffer{}).Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("send failure", func(t *testing.T) {
		r, err := newTestJob(&stubCounter{newCount: 1}, &recordingMailer{err: errors.New("smtp down")}, &bytes.Buffer{}).Run(context.Background())
		assert.Error(t, err)
		require.NotNil(t, r)
		assert.False(t, r.Sent)
	})
}

func TestNewScheduler(t *testing.T) {
	job := newTestJob(&stubCounter{}, &recordingMailer{}, &bytes.Buffer{})

	_, err := NewScheduler("not a cron spec", job)
	assert.Error(t, err)

	s, err := NewScheduler("0 0 8 * * *", job)
	require.NoError(t, err)
	s.Start()
	<-s.Stop().Done()
}
