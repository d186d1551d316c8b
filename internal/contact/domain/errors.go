package domain

import (
	"errors"
	"strings"
)

var (
	ErrMalformedRequest  = errors.New("malformed request body")
	ErrPersistenceFailed = errors.New("failed to persist contact submission")
)

// FieldError is a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rule a payload violated.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
