package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-backend/internal/apperr"
	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

// UserPatch lists the profile fields to change; nil fields are left alone.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
	Role     *models.UserRole
}

type Users struct {
	users UserStore
}

func NewUsers(users UserStore) *Users {
	return &Users{users: users}
}

func (s *Users) Get(ctx context.Context, id string) (models.PublicUser, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.Public(), nil
}

func (s *Users) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list users: %w", err))
	}
	return models.PublicUsers(users), nil
}

// Update applies patch to user id. Only admins may change a role.
func (s *Users) Update(ctx context.Context, id string, patch UserPatch, actorRole models.UserRole) (models.PublicUser, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}

	if patch.Username != nil {
		u.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email != u.Email {
			taken, err := s.users.EmailTaken(ctx, email, u.ID)
			if err != nil {
				return models.PublicUser{}, apperr.Internal(fmt.Errorf("check email: %w", err))
			}
			if taken {
				return models.PublicUser{}, apperr.ErrDuplicateEmail
			}
			u.Email = email
		}
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return models.PublicUser{}, apperr.Validation("password cannot be empty")
		}
		u.PasswordHash = hash
	}
	if patch.Role != nil && *patch.Role != u.Role {
		if actorRole != models.RoleAdmin {
			return models.PublicUser{}, apperr.Forbidden("only admins can change roles")
		}
		if !patch.Role.Valid() {
			return models.PublicUser{}, apperr.Validation("role must be either admin or user")
		}
		u.Role = *patch.Role
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.PublicUser{}, apperr.ErrDuplicateEmail
		}
		return models.PublicUser{}, apperr.Internal(fmt.Errorf("update user: %w", err))
	}
	return u.Public(), nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		return apperr.Internal(fmt.Errorf("delete user: %w", err))
	}
	return nil
}

func (s *Users) find(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("find user: %w", err))
	}
	return u, nil
}
