package handlers

import (
	"context"

	"rental-backend/internal/apperr"
	"rental-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Auditor records who changed what. *database.Audit implements it.
type Auditor interface {
	Record(ctx context.Context, userID, entity, entityID, action, details string)
}

// respondError writes err as {"error": message}. Internal causes are
// attached to the context for the request logger and never sent out.
func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(e.Status(), gin.H{"error": e.Message})
}

// bindJSON decodes and validates the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, validationError(err))
		return false
	}
	return true
}

func identity(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, apperr.ErrNoIdentity)
	}
	return id, ok
}
