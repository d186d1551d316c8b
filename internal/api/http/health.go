package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const storePingTimeout = 2 * time.Second

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the liveness body. Store reports the document store as
// "up", "down" or "disabled". A down store still answers 200.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Store     string    `json:"store,omitempty"`
}

// HealthHandler serves /health and /healthz for load balancers and uptime
// checks. Each request pings the store with a short timeout.
type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
}

func NewHealthHandler(serviceName, version string, store Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Store:     h.storeStatus(c.Request.Context()),
	})
}

func (h *HealthHandler) storeStatus(ctx context.Context) string {
	if h.store == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()
	if err := h.store.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
