package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Path is where the contact form posts to.
const Path = "/contact-submission"

// Register attaches the contact routes to the given router group. Extra
// handlers (rate limiting) run in front of the POST only.
func (h *Handler) Register(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, guards...), h.submit)
	rg.POST(Path, handlers...)
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rg.Handle(m, Path, h.methodNotAllowed)
	}
}
