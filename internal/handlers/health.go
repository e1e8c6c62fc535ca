package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger func(ctx context.Context) error

// Health reports process and database status.
func Health(ping Pinger) gin.HandlerFunc {
	started := time.Now()
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		code, status, db := http.StatusOK, "ok", "up"
		if err := ping(ctx); err != nil {
			_ = c.Error(err)
			code, status, db = http.StatusServiceUnavailable, "degraded", "down"
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": db,
			"uptime":   time.Since(started).Round(time.Second).String(),
		})
	}
}
