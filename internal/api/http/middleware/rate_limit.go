package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexora-labs/website-backend/internal/logging"
	"github.com/nexora-labs/website-backend/internal/ratelimit"
)

// RateLimitMiddleware rejects clients that exceed the limiter with 429.
// Limiter errors let the request through.
//
// Clients are keyed on c.ClientIP, so X-Forwarded-For only counts when it
// arrives through one of the engine's trusted proxies.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logging.New(c.Request.Context(), nil).Warnf("rate_limit", "limiter unavailable, allowing key=%s error=%v", key, err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests"})
			return
		}
		c.Next()
	}
}
