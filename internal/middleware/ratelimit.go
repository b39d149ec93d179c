package middleware

import (
	"fmt"
	"log"
	"time"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
)

// RateLimit enforces the configured RateLimitRule for a scope using
// fixed-window counters in Redis. A missing or disabled rule means no
// limiting; Redis trouble fails open rather than taking the back office
// down with it.
func RateLimit(scope string, settings repositories.SettingsRepository, cacheSvc *cache.CacheService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rule, err := settings.GetRateLimitRule(scope)
		if err != nil || !rule.Enabled {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, limiterKey(c))
		window := time.Duration(rule.WindowSeconds) * time.Second

		count, err := cacheSvc.IncrementWindow(c.Context(), key, window)
		if err != nil {
			log.Printf("rate limit counter error for %s: %v", scope, err)
			return c.Next()
		}

		if count > int64(rule.MaxRequests) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		}
		return c.Next()
	}
}

// limiterKey buckets authenticated requests per admin, everything else per IP.
func limiterKey(c *fiber.Ctx) string {
	if claims, ok := c.Locals("claims").(*models.AdminClaims); ok {
		return fmt.Sprintf("admin:%d", claims.AdminID)
	}
	return "ip:" + c.IP()
}
