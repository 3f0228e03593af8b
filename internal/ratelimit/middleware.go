package ratelimit

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

// PerIP limits requests by client IP. When the limiter fails the request is
// let through and the failure logged.
func PerIP(limiter RateLimiter, scope string, cfg Config, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || !cfg.Enabled() {
			return c.Next()
		}
		key := scope + ":" + c.IP()
		allowed, err := limiter.Allow(c.UserContext(), key, cfg)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				zap.String("scope", scope),
				zap.String("ip", c.IP()),
				zap.Error(err))
			return c.Next()
		}
		if !allowed {
			return apperrors.NewTooManyRequests("too many submissions, please try again later")
		}
		return c.Next()
	}
}
