package repository

import (
	"context"

	"rental-backend/internal/models"

	"gorm.io/gorm"
)

type Vehicles struct {
	db *gorm.DB
}

func NewVehicles(db *gorm.DB) *Vehicles {
	return &Vehicles{db: db}
}

func (r *Vehicles) Create(ctx context.Context, v *models.Vehicle) error {
	return translate(r.db.WithContext(ctx).Omit("Owner").Create(v).Error)
}

func (r *Vehicles) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *Vehicles) FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := r.db.WithContext(ctx).Where("vin = ?", vin).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// VINTaken reports whether a vehicle other than exceptID carries vin.
func (r *Vehicles) VINTaken(ctx context.Context, vin, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("vin = ?", vin)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Vehicles) List(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).Order("created_at asc").Find(&vehicles).Error
	return vehicles, err
}

// ListByMaxPrice returns every vehicle with rental_price <= maxPrice,
// cheapest first.
func (r *Vehicles) ListByMaxPrice(ctx context.Context, maxPrice float64) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("rental_price <= ?", maxPrice).
		Order("rental_price asc, created_at asc").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *Vehicles) Update(ctx context.Context, v *models.Vehicle) error {
	return translate(r.db.WithContext(ctx).Omit("Owner").Save(v).Error)
}

func (r *Vehicles) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vehicle{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
