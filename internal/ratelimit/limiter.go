package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// defaultLimit/defaultWindow: fixed window per IP per purpose.
	defaultLimit  = 10
	defaultWindow = 15 * time.Minute
)

// Limiter is a fixed-window IP rate limiter backed by Redis. It only
// guards the public register/login endpoints; the token gate itself is
// never rate limited. A nil Redis client disables limiting entirely, and
// Redis failures fail open so the limiter can never take the API down.
type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client: client,
		limit:  defaultLimit,
		window: defaultWindow,
	}
}

func ipKey(purpose, ip string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}

// CheckIPRateLimit reports whether the IP has exceeded the window limit
// for the given purpose.
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error) {
	if l.client == nil {
		return false, nil
	}

	count, err := l.client.Get(ctx, ipKey(purpose, ip)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}

	return count >= l.limit, nil
}

// RecordIPRequest counts one request from the IP for the given purpose.
// The window starts on the first request and expires as a whole.
func (l *Limiter) RecordIPRequest(ctx context.Context, ip, purpose string) error {
	if l.client == nil {
		return nil
	}

	key := ipKey(purpose, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return nil
}
