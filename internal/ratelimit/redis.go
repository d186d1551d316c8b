package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:contact:"

// incrWindow counts a hit and opens the window in one step. A counter left
// without a TTL gets one on its next hit, so no key outlives its window.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter is a fixed-window counter shared by every instance that
// talks to the same Redis.
type RedisLimiter struct {
	client   *redis.Client
	requests int64
	window   time.Duration
}

func NewRedisLimiter(client *redis.Client, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, requests: int64(requests), window: window}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := incrWindow.Run(ctx, r.client, []string{keyPrefix + key}, r.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}
	return n <= r.requests, nil
}
