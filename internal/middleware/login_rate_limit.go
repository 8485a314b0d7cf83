package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const loginRatePrefix = "lirapay:login-attempts:v1:"

// LoginRateLimit caps login attempts per email within a one minute window.
// The limiter fails open when the cache is unavailable so that a redis outage
// does not lock everyone out.
func LoginRateLimit(cache *redis.Client, maxAttempts int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		var body struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&body); err != nil || body.Email == "" {
			return c.Next()
		}
		key := loginRatePrefix + strings.ToLower(body.Email)

		ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		defer cancel()

		attempts, err := cache.Incr(ctx, key).Result()
		if err != nil {
			return c.Next()
		}
		if attempts == 1 {
			cache.Expire(ctx, key, time.Minute)
		}
		if attempts > int64(maxAttempts) {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts, retry later")
		}

		return c.Next()
	}
}
