package handlers

import (
	"context"
	"net/http"

	"rental-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// ListAuditLogs returns the newest audit records, admin only.
func ListAuditLogs(audit AuditReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := audit.Recent(c.Request.Context(), auditPageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
