package services

import (
	"context"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
)

// UserStore is the credential store the services work against.
// *repository.Users implements it.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	SetRefreshToken(ctx context.Context, id string, token *string) error
	Delete(ctx context.Context, id string) error
}

// VehicleStore is implemented by *repository.Vehicles.
type VehicleStore interface {
	Create(ctx context.Context, v *models.Vehicle) error
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	VINTaken(ctx context.Context, vin, exceptID string) (bool, error)
	List(ctx context.Context) ([]models.Vehicle, error)
	ListByMaxPrice(ctx context.Context, maxPrice float64) ([]models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) error
	Delete(ctx context.Context, id string) error
}

// TokenIssuer is implemented by *auth.Issuer.
type TokenIssuer interface {
	IssueAccessToken(s auth.Subject) (string, error)
	IssueRefreshToken(s auth.Subject) (string, error)
	VerifyRefreshToken(token string) (*auth.Claims, error)
}

func subjectOf(u *models.User) auth.Subject {
	return auth.Subject{ID: u.ID, Role: string(u.Role), Email: u.Email}
}
