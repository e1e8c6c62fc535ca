package middleware

import (
	"net/http"
	"strconv"
	"time"

	"rental-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit caps requests per client IP and route. metrics may be nil.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		route := c.FullPath()
		d := limiter.Allow(c.ClientIP()+":"+route, limit, window)

		remaining := limit - d.Count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !d.WindowEnd.IsZero() {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(d.WindowEnd.Unix(), 10))
		}

		if !d.Allowed {
			metrics.recordRateLimitHit(route)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
