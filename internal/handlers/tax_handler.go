package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/middleware"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/services"
)

// TaxHandler handles tax-invoice issuance tracking requests.
type TaxHandler struct {
	service services.TaxService
}

// NewTaxHandler creates a new TaxHandler instance.
func NewTaxHandler(service services.TaxService) *TaxHandler {
	return &TaxHandler{service: service}
}

// ToggleIssuedRequest is the body for PUT /api/v1/tax-invoices/toggle.
type ToggleIssuedRequest struct {
	TenantID int64  `json:"tenant_id" binding:"required"`
	Year     int    `json:"year" binding:"required"`
	Month    int    `json:"month" binding:"required,min=1,max=12"`
	ItemType string `json:"item_type" binding:"required"`
}

// List handles GET /api/v1/tax-invoices?year=&month=, expanding the period's
// bills into taxable line items.
func (h *TaxHandler) List(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}
	if period == nil {
		httperr.BadRequest(c, "year and month are required", nil)
		return
	}

	items, err := h.service.ListItems(c.Request.Context(), middleware.GetPrincipal(c), period.Year, period.Month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			httperr.BadRequest(c, err.Error(), nil)
			return
		}
		httperr.InternalServerError(c, "Failed to list tax invoices", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// Toggle handles PUT /api/v1/tax-invoices/toggle.
func (h *TaxHandler) Toggle(c *gin.Context) {
	var req ToggleIssuedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			httperr.ValidationError(c, validationErrors)
			return
		}
		httperr.BadRequest(c, "Invalid toggle payload", nil)
		return
	}

	issued, err := h.service.ToggleIssued(c.Request.Context(), req.TenantID, req.Year, req.Month, models.BillItem(req.ItemType))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidItemType),
			errors.Is(err, services.ErrInvalidPeriod):
			httperr.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrBillNotFound):
			httperr.NotFound(c, "No bill for this tenant and period")
		default:
			httperr.InternalServerError(c, "Failed to toggle tax invoice", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_issued": issued})
}
