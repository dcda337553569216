package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/services"
)

// BuildingBillHandler handles building-wide utility total requests.
type BuildingBillHandler struct {
	service services.BuildingBillService
}

// NewBuildingBillHandler creates a new BuildingBillHandler instance.
func NewBuildingBillHandler(service services.BuildingBillService) *BuildingBillHandler {
	return &BuildingBillHandler{service: service}
}

// SaveBuildingBillRequest is the body for POST /api/v1/building-bills.
type SaveBuildingBillRequest struct {
	Year             int   `json:"year" binding:"required"`
	Month            int   `json:"month" binding:"required,min=1,max=12"`
	GasTotal         int64 `json:"gas_total" binding:"min=0"`
	ElectricityTotal int64 `json:"electricity_total" binding:"min=0"`
	WaterTotal       int64 `json:"water_total" binding:"min=0"`
}

// Save handles POST /api/v1/building-bills, overwriting any prior entry for
// the period.
func (h *BuildingBillHandler) Save(c *gin.Context) {
	var req SaveBuildingBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			httperr.ValidationError(c, validationErrors)
			return
		}
		httperr.BadRequest(c, "Invalid building bill payload", nil)
		return
	}

	id, err := h.service.Save(c.Request.Context(), &models.BuildingBill{
		Year:             req.Year,
		Month:            req.Month,
		GasTotal:         req.GasTotal,
		ElectricityTotal: req.ElectricityTotal,
		WaterTotal:       req.WaterTotal,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPeriod),
			errors.Is(err, services.ErrNegativeTotal):
			httperr.BadRequest(c, err.Error(), nil)
		default:
			httperr.InternalServerError(c, "Failed to save building bill", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// List handles GET /api/v1/building-bills with optional year/month params.
func (h *BuildingBillHandler) List(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}

	bills, err := h.service.List(c.Request.Context(), period)
	if err != nil {
		httperr.InternalServerError(c, "Failed to list building bills", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"building_bills": bills, "count": len(bills)})
}
