package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	assert.True(t, VerifyPassword(hash, "pw123456"))
	assert.False(t, VerifyPassword(hash, "pw1234567"))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_EmptyFails(t *testing.T) {
	hash, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	assert.Empty(t, hash)
}

func TestVerifyPassword_BadHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "x"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "x"))
}
