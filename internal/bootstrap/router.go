package bootstrap

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/nexora-labs/website-backend/internal/api/http"
	"github.com/nexora-labs/website-backend/internal/api/http/middleware"
	contacthttp "github.com/nexora-labs/website-backend/internal/contact/http"
	"github.com/nexora-labs/website-backend/internal/contact/service"
	"github.com/nexora-labs/website-backend/internal/ratelimit"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For for the client IP the rate
	// limiter keys on. Empty trusts none.
	TrustedProxies []string
	Store          httpapi.Pinger
	Contact        *service.SubmissionService
	// Limiter guards contact submissions. Nil disables rate limiting.
	Limiter ratelimit.Limiter
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(dep.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	var guards []gin.HandlerFunc
	if dep.Limiter != nil {
		guards = append(guards, middleware.RateLimitMiddleware(dep.Limiter))
	}
	contacthttp.New(dep.Contact).Register(api, guards...)

	return r, nil
}
