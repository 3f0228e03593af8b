// Package ratelimit implements sliding-window request limits shared through Redis.
package ratelimit

import (
	"context"
	"time"
)

// Config bounds requests per window. A zero limit disables that window.
type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// Enabled reports whether any window is limited.
func (c Config) Enabled() bool {
	return c.RequestsPerMinute > 0 || c.RequestsPerHour > 0
}

// RateLimiter decides whether another request identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string, cfg Config) (bool, error)
	Remaining(ctx context.Context, key string, window time.Duration) (int64, error)
}
