package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexora-labs/website-backend/internal/contact/domain"
	"github.com/nexora-labs/website-backend/internal/contact/service"
	"github.com/nexora-labs/website-backend/internal/logging"
)

const maxBodyBytes = 64 << 10

// Submitter is the part of the submission service the handler needs.
type Submitter interface {
	Submit(ctx context.Context, raw []byte, meta domain.RequestMeta) (*service.Result, error)
}

// Handler serves the contact submission endpoint.
type Handler struct {
	svc Submitter
}

func New(svc Submitter) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: errTooLarge})
			return
		}
		logging.New(c.Request.Context(), nil).Error("read_body", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternal})
		return
	}

	res, err := h.svc.Submit(c.Request.Context(), raw, domain.RequestMeta{
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		UserAgent:    c.GetHeader("User-Agent"),
	})
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, errorResponse{Error: errValidationFailed, Details: verr.Details})
		case errors.Is(err, domain.ErrMalformedRequest):
			// Malformed JSON shares the generic 500 path with store failures.
			logging.New(c.Request.Context(), nil).Error("parse_body", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternal})
		default:
			c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternal})
		}
		return
	}

	status, body := submitted(res)
	c.JSON(status, body)
}

// submitted builds the success response for both genuine and honeypot
// submissions so the two only differ in status and the id.
func submitted(res *service.Result) (int, submitResponse) {
	body := submitResponse{Success: true, Message: msgSubmitted}
	if res.Spam {
		return http.StatusOK, body
	}
	body.SubmissionID = res.SubmissionID
	return http.StatusCreated, body
}

func (h *Handler) methodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": errMethodNotAllowed})
}

// compile-time check that the service satisfies Submitter
var _ Submitter = (*service.SubmissionService)(nil)
