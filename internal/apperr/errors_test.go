package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusByKind(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthenticated("no"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusBadRequest},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Status())
		})
	}
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials)
	got := From(wrapped)
	assert.Equal(t, KindUnauthenticated, got.Kind)
	assert.Equal(t, "invalid credentials", got.Message)

	raw := errors.New("connection reset")
	internal := From(raw)
	assert.Equal(t, KindInternal, internal.Kind)
	assert.Equal(t, "internal server error", internal.Message)
	assert.ErrorIs(t, internal, raw)
}

func TestIsMatchesNamedErrors(t *testing.T) {
	assert.ErrorIs(t, fmt.Errorf("x: %w", ErrDuplicateEmail), ErrDuplicateEmail)
	assert.NotErrorIs(t, ErrDuplicateEmail, ErrDuplicateVIN)
	assert.True(t, IsKind(ErrVehicleNotFound, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}
