package http

import "github.com/nexora-labs/website-backend/internal/contact/domain"

const (
	msgSubmitted        = "Thank you for contacting us! We will get back to you soon."
	errValidationFailed = "Validation failed"
	errInternal         = "Internal server error"
	errTooLarge         = "Request body too large"
	errMethodNotAllowed = "Method not allowed"
)

type submitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId,omitempty"`
}

type errorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}
