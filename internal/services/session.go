package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"rental-backend/internal/apperr"
	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.UserRole
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         models.PublicUser
}

type RefreshResult struct {
	AccessToken string
	User        models.PublicUser
}

// Sessions drives a user's session lifecycle: register, login, refresh and
// logout. A user has at most one active refresh token; a newer login
// replaces the previous one.
type Sessions struct {
	users  UserStore
	tokens TokenIssuer
}

func NewSessions(users UserStore, tokens TokenIssuer) *Sessions {
	return &Sessions{users: users, tokens: tokens}
}

func (s *Sessions) Register(ctx context.Context, in RegisterInput) (models.PublicUser, error) {
	email := normalizeEmail(in.Email)

	taken, err := s.users.EmailTaken(ctx, email, "")
	if err != nil {
		return models.PublicUser{}, apperr.Internal(fmt.Errorf("check email: %w", err))
	}
	if taken {
		return models.PublicUser{}, apperr.ErrDuplicateEmail
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.PublicUser{}, apperr.Validation("role must be either admin or user")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.PublicUser{}, apperr.Internal(err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return models.PublicUser{}, apperr.ErrDuplicateEmail
		}
		return models.PublicUser{}, apperr.Internal(fmt.Errorf("create user: %w", err))
	}
	return user.Public(), nil
}

func (s *Sessions) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, apperr.Internal(fmt.Errorf("find user: %w", err))
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, apperr.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(subjectOf(user))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refresh, err := s.tokens.IssueRefreshToken(subjectOf(user))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, apperr.Internal(fmt.Errorf("store refresh token: %w", err))
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.Public(),
	}, nil
}

// Refresh exchanges the user's current refresh token for a new access
// token. The refresh token itself is not rotated.
func (s *Sessions) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidRefreshToken
		}
		return nil, apperr.Internal(fmt.Errorf("find user: %w", err))
	}
	if user.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, apperr.ErrInvalidRefreshToken
	}

	access, err := s.tokens.IssueAccessToken(subjectOf(user))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &RefreshResult{AccessToken: access, User: user.Public()}, nil
}

// Logout clears the stored refresh token. Logging out twice is fine.
func (s *Sessions) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.ErrNoIdentity
	}
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		return apperr.Internal(fmt.Errorf("clear refresh token: %w", err))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
