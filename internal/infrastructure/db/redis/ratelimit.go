package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter is a fixed-window counter implementing the middleware Limiter
// contract. Key format: ratelimit:login:<client ip>. The counter is shared
// through Redis, so the limit holds across server instances.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow increments the caller's window counter and reports whether the
// request may proceed. INCR and EXPIRE run in one pipeline round trip; the
// expiry is only set on the first hit of a window.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := "ratelimit:login:" + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit check: %w", err)
	}

	if incr.Val() <= int64(l.limit) {
		return true, 0, nil
	}

	retryAfter, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || retryAfter < 0 {
		retryAfter = l.window
	}
	return false, retryAfter, nil
}
