// Package digest mails the site admin a daily summary of contact submissions.
package digest

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/nexora-labs/website-backend/internal/contact/domain"
	"github.com/nexora-labs/website-backend/internal/mail"
)

const period = 24 * time.Hour

// Report is what one digest run found.
type Report struct {
	Since  time.Time
	Until  time.Time
	New    int
	Unread int
	Sent   bool
}

// Job counts recent submissions and mails the admin when there are any.
type Job struct {
	counter domain.SubmissionCounter
	mailer  mail.Dispatcher
	now     func() time.Time
	out     *log.Logger
}

func NewJob(counter domain.SubmissionCounter, mailer mail.Dispatcher, out *log.Logger) *Job {
	if out == nil {
		out = log.Default()
	}
	return &Job{counter: counter, mailer: mailer, now: time.Now, out: out}
}

func (j *Job) Run(ctx context.Context) (*Report, error) {
	until := j.now().UTC()
	r := &Report{Since: until.Add(-period), Until: until}

	var err error
	if r.New, err = j.counter.CountSince(ctx, domain.CollectionContactSubmissions, r.Since); err != nil {
		return nil, fmt.Errorf("count new submissions: %w", err)
	}
	if r.New == 0 {
		j.out.Printf("[digest] no submissions since %s, skipping email", r.Since.Format(time.RFC3339))
		return r, nil
	}
	if r.Unread, err = j.counter.CountUnread(ctx, domain.CollectionContactSubmissions); err != nil {
		return nil, fmt.Errorf("count unread submissions: %w", err)
	}

	fields := []mail.Field{
		{Key: "Period", Value: r.Since.Format("2006-01-02 15:04") + " - " + r.Until.Format("2006-01-02 15:04") + " UTC"},
		{Key: "New submissions", Value: strconv.Itoa(r.New)},
		{Key: "Unread", Value: strconv.Itoa(r.Unread)},
	}
	if err := j.mailer.SendAdminNotification(ctx, "Daily contact digest", fields); err != nil {
		return r, fmt.Errorf("send digest: %w", err)
	}
	r.Sent = true

	j.out.Printf("[digest] sent new=%d unread=%d", r.New, r.Unread)
	return r, nil
}
