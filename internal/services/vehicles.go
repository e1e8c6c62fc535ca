package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-backend/internal/apperr"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

type VehicleInput struct {
	Make        string
	Model       string
	Year        int
	VIN         string
	RentalPrice float64
}

type VehiclePatch struct {
	Make        *string
	Model       *string
	Year        *int
	VIN         *string
	RentalPrice *float64
}

type Vehicles struct {
	vehicles VehicleStore
}

func NewVehicles(vehicles VehicleStore) *Vehicles {
	return &Vehicles{vehicles: vehicles}
}

func (s *Vehicles) Create(ctx context.Context, ownerID string, in VehicleInput) (models.VehicleView, error) {
	if ownerID == "" {
		return models.VehicleView{}, apperr.ErrNoIdentity
	}
	if in.RentalPrice <= 0 {
		return models.VehicleView{}, apperr.Validation("rentalPrice must be greater than zero")
	}
	vin := normalizeVIN(in.VIN)
	if err := s.ensureVINFree(ctx, vin, ""); err != nil {
		return models.VehicleView{}, err
	}

	v := &models.Vehicle{
		Make:        strings.TrimSpace(in.Make),
		Model:       strings.TrimSpace(in.Model),
		Year:        in.Year,
		VIN:         vin,
		RentalPrice: in.RentalPrice,
		OwnerID:     ownerID,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.VehicleView{}, apperr.ErrDuplicateVIN
		}
		return models.VehicleView{}, apperr.Internal(fmt.Errorf("create vehicle: %w", err))
	}
	return v.View(), nil
}

func (s *Vehicles) Get(ctx context.Context, id string) (models.VehicleView, error) {
	v, err := s.find(ctx, id)
	if err != nil {
		return models.VehicleView{}, err
	}
	return v.View(), nil
}

func (s *Vehicles) List(ctx context.Context) ([]models.VehicleView, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list vehicles: %w", err))
	}
	return models.VehicleViews(vehicles), nil
}

func (s *Vehicles) FindByVIN(ctx context.Context, vin string) (models.VehicleView, error) {
	v, err := s.vehicles.FindByVIN(ctx, normalizeVIN(vin))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.VehicleView{}, apperr.ErrVehicleNotFound
		}
		return models.VehicleView{}, apperr.Internal(fmt.Errorf("find vehicle by vin: %w", err))
	}
	return v.View(), nil
}

// ListByMaxPrice returns every vehicle whose rental price is <= maxPrice.
func (s *Vehicles) ListByMaxPrice(ctx context.Context, maxPrice float64) ([]models.VehicleView, error) {
	if maxPrice < 0 {
		return nil, apperr.Validation("maxPrice must not be negative")
	}
	vehicles, err := s.vehicles.ListByMaxPrice(ctx, maxPrice)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list vehicles by price: %w", err))
	}
	return models.VehicleViews(vehicles), nil
}

func (s *Vehicles) Update(ctx context.Context, id string, patch VehiclePatch) (models.VehicleView, error) {
	v, err := s.find(ctx, id)
	if err != nil {
		return models.VehicleView{}, err
	}

	if patch.Make != nil {
		v.Make = strings.TrimSpace(*patch.Make)
	}
	if patch.Model != nil {
		v.Model = strings.TrimSpace(*patch.Model)
	}
	if patch.Year != nil {
		v.Year = *patch.Year
	}
	if patch.RentalPrice != nil {
		if *patch.RentalPrice <= 0 {
			return models.VehicleView{}, apperr.Validation("rentalPrice must be greater than zero")
		}
		v.RentalPrice = *patch.RentalPrice
	}
	if patch.VIN != nil {
		vin := normalizeVIN(*patch.VIN)
		if vin != v.VIN {
			if err := s.ensureVINFree(ctx, vin, v.ID); err != nil {
				return models.VehicleView{}, err
			}
			v.VIN = vin
		}
	}

	if err := s.vehicles.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.VehicleView{}, apperr.ErrDuplicateVIN
		}
		return models.VehicleView{}, apperr.Internal(fmt.Errorf("update vehicle: %w", err))
	}
	return v.View(), nil
}

func (s *Vehicles) Delete(ctx context.Context, id string) error {
	if err := s.vehicles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrVehicleNotFound
		}
		return apperr.Internal(fmt.Errorf("delete vehicle: %w", err))
	}
	return nil
}

func (s *Vehicles) find(ctx context.Context, id string) (*models.Vehicle, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrVehicleNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("find vehicle: %w", err))
	}
	return v, nil
}

func (s *Vehicles) ensureVINFree(ctx context.Context, vin, exceptID string) error {
	taken, err := s.vehicles.VINTaken(ctx, vin, exceptID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("check vin: %w", err))
	}
	if taken {
		return apperr.ErrDuplicateVIN
	}
	return nil
}

// VINs are stored upper-case so lookups are case-insensitive.
func normalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}
