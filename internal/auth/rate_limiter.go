package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reportmitra/admin-hub/pkg/db"
)

// LoginRateLimiter limits login attempts per client IP using a fixed-window
// Redis counter. When Redis is not configured the middleware is a no-op, so
// development setups work without it.
func LoginRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := db.GetRedis()
		if client == nil {
			c.Next()
			return
		}

		key := "ratelimit:login:" + c.ClientIP()
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
			c.Abort()
			return
		}

		// First hit in the window starts the clock.
		if count == 1 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many login attempts",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
