package bootstrap

import (
	"context"
	"fmt"

	"github.com/nexora-labs/website-backend/config"
	"github.com/nexora-labs/website-backend/internal/ratelimit"
)

// NewLimiter builds the configured submission limiter. It returns nil when
// rate limiting is disabled. The close func is never nil.
func NewLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	noop := func() {}
	rl := cfg.RateLimit
	if !rl.Enabled {
		return nil, noop, nil
	}

	switch rl.Backend {
	case config.RateLimitMemory:
		return ratelimit.NewMemoryLimiter(rl.Requests, rl.Window), noop, nil
	case config.RateLimitRedis:
		client, err := OpenRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return ratelimit.NewRedisLimiter(client, rl.Requests, rl.Window), func() { _ = client.Close() }, nil
	}

	return nil, noop, fmt.Errorf("unknown rate limit backend %q", rl.Backend)
}
