package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultResetLimit  = 5
	defaultResetWindow = 10 * time.Minute
)

// ResetLimiter throttles password-reset traffic per email address with a
// fixed window counter. Key format: reset:<email>
type ResetLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewResetLimiter creates a ResetLimiter. Non-positive limit or window
// fall back to 5 attempts per 10 minutes.
func NewResetLimiter(client *redis.Client, limit int64, window time.Duration) *ResetLimiter {
	if limit <= 0 {
		limit = defaultResetLimit
	}
	if window <= 0 {
		window = defaultResetWindow
	}
	return &ResetLimiter{client: client, limit: limit, window: window}
}

// Allow increments the window counter for key and reports whether the
// attempt fits the budget. The first increment arms the window expiry.
func (l *ResetLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.key(key)

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("reset limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("reset limiter expire: %w", err)
		}
	}
	return n <= l.limit, nil
}

func (l *ResetLimiter) key(email string) string {
	return "reset:" + strings.ToLower(email)
}
