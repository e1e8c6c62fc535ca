package repository

import (
	"context"
	"testing"

	"rental-backend/internal/database/dbtest"
	"rental-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	return &models.User{Username: "alice", Email: email, PasswordHash: "hash"}
}

func TestUsers_CreateAndFind(t *testing.T) {
	repo := NewUsers(dbtest.New(t))
	ctx := context.Background()

	u := newUser("a@x.com")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.Nil(t, byID.RefreshToken)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	repo := NewUsers(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("a@x.com")))
	err := repo.Create(ctx, newUser("a@x.com"))
	assert.ErrorIs(t, err, ErrDuplicate)

	first, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	taken, err := repo.EmailTaken(ctx, "a@x.com", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(ctx, "a@x.com", first.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUsers_SetRefreshToken(t *testing.T) {
	repo := NewUsers(dbtest.New(t))
	ctx := context.Background()

	u := newUser("a@x.com")
	require.NoError(t, repo.Create(ctx, u))

	tok := "token-1"
	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, &tok))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "token-1", *got.RefreshToken)

	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, nil))
	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, nil))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)

	assert.ErrorIs(t, repo.SetRefreshToken(ctx, "missing", nil), ErrNotFound)
}

func TestUsers_UpdateListDelete(t *testing.T) {
	repo := NewUsers(dbtest.New(t))
	ctx := context.Background()

	a := newUser("a@x.com")
	b := newUser("b@x.com")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	a.Username = "alice2"
	require.NoError(t, repo.Update(ctx, a))

	b.Email = "a@x.com"
	assert.ErrorIs(t, repo.Update(ctx, b), ErrDuplicate)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)

	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUsers_UpdateKeepsRefreshToken(t *testing.T) {
	repo := NewUsers(dbtest.New(t))
	ctx := context.Background()

	u := newUser("a@x.com")
	require.NoError(t, repo.Create(ctx, u))
	stale, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)

	token := "fresh-token"
	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, &token))

	// a profile edit loaded before the login must not roll the token back
	stale.Username = "alice2"
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "fresh-token", *got.RefreshToken)

	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, nil))
	got.RefreshToken = &token
	require.NoError(t, repo.Update(ctx, got))

	cleared, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.RefreshToken)
}
