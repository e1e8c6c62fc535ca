package middleware

import (
	"rental-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "CurrentIdentity"

// Identity is what RequireAuth attaches to an authenticated request.
type Identity struct {
	ID    string
	Role  models.UserRole
	Email string
}

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok && id.ID != ""
}
