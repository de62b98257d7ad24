package security

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redisClient}
}

// PaymentRateLimit caps payment initiations per client IP. Every initiation
// prompts a real phone, so a stuck retry loop must be cut off server-side.
func (r *RateLimiter) PaymentRateLimit(max int64, window time.Duration) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := fmt.Sprintf("ratelimit:pay:%s", e.RealIP())

		count, err := r.redis.Incr(e.Request.Context(), key).Result()
		if err == nil {
			if count == 1 {
				r.redis.Expire(e.Request.Context(), key, window)
			}
			if count > max {
				return e.JSON(429, map[string]string{
					"error": "Too many payment attempts. Please try again later.",
				})
			}
		}

		return e.Next()
	}
}
