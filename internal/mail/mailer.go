package mail

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Email is a single plain-text message to one recipient.
type Email struct {
	To      string
	Subject string
	Text    string
}

// Field is one row of an admin notification table.
type Field struct {
	Key   string
	Value string
}

// Dispatcher sends transactional email.
type Dispatcher interface {
	SendEmail(ctx context.Context, email Email) error
	SendAdminNotification(ctx context.Context, subject string, fields []Field) error
}

// FormatFields renders fields as "Key: Value" lines in order. Multi-line
// values are indented under their key.
func FormatFields(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		value := strings.ReplaceAll(strings.TrimRight(f.Value, "\r\n"), "\n", "\n  ")
		fmt.Fprintf(&b, "%s: %s\n", f.Key, value)
	}
	return b.String()
}

// LogDispatcher writes email to the log instead of sending it. Used when no
// SMTP host is configured.
type LogDispatcher struct {
	out *log.Logger
}

func NewLogDispatcher(out *log.Logger) *LogDispatcher {
	if out == nil {
		out = log.Default()
	}
	return &LogDispatcher{out: out}
}

func (d *LogDispatcher) SendEmail(_ context.Context, email Email) error {
	d.out.Printf("[mail] to=%s subject=%q\n%s", email.To, email.Subject, email.Text)
	return nil
}

func (d *LogDispatcher) SendAdminNotification(_ context.Context, subject string, fields []Field) error {
	d.out.Printf("[mail] to=admin subject=%q\n%s", subject, FormatFields(fields))
	return nil
}
