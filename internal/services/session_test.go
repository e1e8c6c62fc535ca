package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-backend/internal/apperr"
	"rental-backend/internal/auth"
	"rental-backend/internal/database/dbtest"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions(t *testing.T) (*Sessions, *repository.Users) {
	t.Helper()
	users := repository.NewUsers(dbtest.New(t))
	issuer := auth.NewIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewSessions(users, issuer), users
}

func registerAlice(t *testing.T, s *Sessions) models.PublicUser {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)
	return u
}

func TestRegister_DefaultsRoleAndHidesHash(t *testing.T) {
	s, users := newSessions(t)

	u := registerAlice(t, s)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEmpty(t, u.ID)

	stored, err := users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "pw123456"))
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	s, _ := newSessions(t)
	registerAlice(t, s)

	_, err := s.Register(context.Background(), RegisterInput{Username: "alice2", Email: "A@X.com ", Password: "other-pass"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRegister_AdminRoleAndInvalidRole(t *testing.T) {
	s, _ := newSessions(t)
	ctx := context.Background()

	admin, err := s.Register(ctx, RegisterInput{Username: "root", Email: "r@x.com", Password: "pw123456", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = s.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw123456", Role: "owner"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestLogin_IssuesTokensAndStoresRefresh(t *testing.T) {
	s, users := newSessions(t)
	u := registerAlice(t, s)

	res, err := s.Login(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, u.ID, res.User.ID)

	stored, err := users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, res.RefreshToken, *stored.RefreshToken)
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	s, _ := newSessions(t)
	registerAlice(t, s)
	ctx := context.Background()

	_, wrongPassword := s.Login(ctx, "a@x.com", "nope-nope")
	_, unknownEmail := s.Login(ctx, "ghost@x.com", "pw123456")

	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, apperr.From(wrongPassword).Status(), apperr.From(unknownEmail).Status())
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	s, _ := newSessions(t)
	registerAlice(t, s)
	ctx := context.Background()

	login, err := s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	res, err := s.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEqual(t, login.AccessToken, res.AccessToken)
	assert.Equal(t, login.User.ID, res.User.ID)

	// not rotated: the same refresh token keeps working
	_, err = s.Refresh(ctx, login.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RejectsSupersededToken(t *testing.T) {
	s, _ := newSessions(t)
	registerAlice(t, s)
	ctx := context.Background()

	first, err := s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	second, err := s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	_, err = s.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)

	_, err = s.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RejectsGarbageAndAccessTokens(t *testing.T) {
	s, _ := newSessions(t)
	registerAlice(t, s)
	ctx := context.Background()

	login, err := s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	_, err = s.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)

	_, err = s.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestRefresh_DeletedUser(t *testing.T) {
	s, users := newSessions(t)
	u := registerAlice(t, s)
	ctx := context.Background()

	login, err := s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, u.ID))

	_, err = s.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestLogout_ClearsTokenAndIsIdempotent(t *testing.T) {
	s, users := newSessions(t)
	u := registerAlice(t, s)
	ctx := context.Background()

	login, err := s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, u.ID))
	require.NoError(t, s.Logout(ctx, u.ID))

	stored, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)

	_, err = s.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidRefreshToken)
}

func TestLogout_RequiresIdentity(t *testing.T) {
	s, _ := newSessions(t)
	assert.ErrorIs(t, s.Logout(context.Background(), ""), apperr.ErrNoIdentity)
}

type failingUsers struct {
	UserStore
	err error
}

func (f failingUsers) FindByEmail(context.Context, string) (*models.User, error) { return nil, f.err }

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	s := NewSessions(failingUsers{err: errors.New("connection refused")}, auth.NewIssuer("k", time.Minute, time.Hour))

	_, err := s.Login(context.Background(), "a@x.com", "pw123456")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	assert.Equal(t, "internal server error", apperr.From(err).Message)
}
