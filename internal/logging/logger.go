package logging

import (
	"context"
	"log"
)

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides request-scoped structured logging
type Logger struct {
	out       *log.Logger
	requestID string
}

// New creates a logger bound to the request id in ctx. A nil out falls back
// to the standard logger.
func New(ctx context.Context, out *log.Logger) *Logger {
	if out == nil {
		out = log.Default()
	}
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{out: out, requestID: requestID}
}

// Error logs an error with context
func (l *Logger) Error(operation string, err error) {
	l.out.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
}

// Errorf logs a formatted error with context
func (l *Logger) Errorf(operation string, format string, args ...interface{}) {
	l.out.Printf("[error] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

// Infof logs a formatted info message with context
func (l *Logger) Infof(operation string, format string, args ...interface{}) {
	l.out.Printf("[info] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

// Warnf logs a formatted warning with context
func (l *Logger) Warnf(operation string, format string, args ...interface{}) {
	l.out.Printf("[warn] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}
