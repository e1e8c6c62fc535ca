package middleware

import (
	"context"
	"errors"
	"strings"

	"rental-backend/internal/apperr"
	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

type AccessVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// UserLookup returns repository.ErrNotFound for a missing user.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

var (
	errMissingToken = apperr.Unauthenticated("missing or invalid token")
	errBadToken     = apperr.Unauthenticated("invalid or expired token")
	errUnknownUser  = apperr.Unauthenticated("user not found")
	errForbidden    = apperr.Forbidden("access forbidden")
)

// RequireAuth verifies the bearer access token, loads its user and attaches
// the user's identity to the request. Read-only with respect to storage.
func RequireAuth(tokens AccessVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, errMissingToken)
			return
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			abort(c, errBadToken)
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abort(c, errUnknownUser)
				return
			}
			_ = c.Error(err)
			abort(c, apperr.Internal(err))
			return
		}

		SetIdentity(c, Identity{ID: user.ID, Role: user.Role, Email: user.Email})
		c.Next()
	}
}

// RequireRole lets the request through only when the attached identity has
// one of roles. Must run after RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			abort(c, apperr.ErrNoIdentity)
			return
		}
		if _, ok := roleSet[id.Role]; !ok {
			abort(c, errForbidden)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func abort(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.Status(), gin.H{"error": err.Message})
}
