package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Make        string  `gorm:"size:50;not null"`
	Model       string  `gorm:"size:50;not null"`
	Year        int     `gorm:"not null"`
	VIN         string  `gorm:"column:vin;uniqueIndex;size:20;not null"`
	RentalPrice float64 `gorm:"not null;index"`

	OwnerID string `gorm:"size:36;not null;index"`
	Owner   User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *Vehicle) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type VehicleView struct {
	ID          string    `json:"id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	VIN         string    `json:"vin"`
	RentalPrice float64   `json:"rentalPrice"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v *Vehicle) View() VehicleView {
	return VehicleView{
		ID:          v.ID,
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		VIN:         v.VIN,
		RentalPrice: v.RentalPrice,
		OwnerID:     v.OwnerID,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func VehicleViews(vehicles []Vehicle) []VehicleView {
	out := make([]VehicleView, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, vehicles[i].View())
	}
	return out
}
