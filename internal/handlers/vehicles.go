package handlers

import (
	"math"
	"net/http"
	"strconv"

	"rental-backend/internal/apperr"
	"rental-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicles *services.Vehicles
	audit    Auditor
}

func NewVehicleHandler(vehicles *services.Vehicles, audit Auditor) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, audit: audit}
}

type createVehicleRequest struct {
	Make        string  `json:"make" binding:"required,min=2,max=50"`
	Model       string  `json:"model" binding:"required,min=1,max=50"`
	Year        int     `json:"year" binding:"required,gte=1886,lte=2100"`
	VIN         string  `json:"vin" binding:"required,alphanum,min=3,max=20"`
	RentalPrice float64 `json:"rentalPrice" binding:"required,gt=0"`
}

type updateVehicleRequest struct {
	Make        *string  `json:"make" binding:"omitempty,min=2,max=50"`
	Model       *string  `json:"model" binding:"omitempty,min=1,max=50"`
	Year        *int     `json:"year" binding:"omitempty,gte=1886,lte=2100"`
	VIN         *string  `json:"vin" binding:"omitempty,alphanum,min=3,max=20"`
	RentalPrice *float64 `json:"rentalPrice" binding:"omitempty,gt=0"`
}

func (h *VehicleHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req createVehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.vehicles.Create(c.Request.Context(), id.ID, services.VehicleInput{
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		VIN:         req.VIN,
		RentalPrice: req.RentalPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), id.ID, "vehicle", v.ID, "create", v.VIN)
	c.JSON(http.StatusCreated, v)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	v, err := h.vehicles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// List answers both GET /vehicles/vehicles and the admin listing.
func (h *VehicleHandler) List(c *gin.Context) {
	list, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *VehicleHandler) SearchByVIN(c *gin.Context) {
	v, err := h.vehicles.FindByVIN(c.Request.Context(), c.Param("vin"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VehicleHandler) ByMaxPrice(c *gin.Context) {
	maxPrice, err := strconv.ParseFloat(c.Param("maxPrice"), 64)
	if err != nil || math.IsNaN(maxPrice) || math.IsInf(maxPrice, 0) {
		respondError(c, apperr.Validation("maxPrice must be a number"))
		return
	}

	list, err := h.vehicles.ListByMaxPrice(c.Request.Context(), maxPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req updateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.vehicles.Update(c.Request.Context(), c.Param("id"), services.VehiclePatch{
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		VIN:         req.VIN,
		RentalPrice: req.RentalPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), id.ID, "vehicle", v.ID, "update", "")
	c.JSON(http.StatusOK, v)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	vehicleID := c.Param("id")
	if err := h.vehicles.Delete(c.Request.Context(), vehicleID); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), id.ID, "vehicle", vehicleID, "delete", "")
	c.Status(http.StatusNoContent)
}
