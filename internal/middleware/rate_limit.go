package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const dispatchRatePrefix = "assets:rl:dispatch:"

// DispatchRateLimit caps write requests per client IP in a one minute window
// opened by the first request and kept in Redis. Without Redis, or on cache
// errors, requests pass.
func DispatchRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 120
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		key := dispatchRatePrefix + c.IP()

		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(maxPerMin))
		remaining := int64(maxPerMin) - cnt
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many actions, try again later")
		}
		return c.Next()
	}
}
