package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/middleware"
	"github.com/tandangji/rental/internal/services"
)

// BillHandler handles monthly-bill HTTP requests.
type BillHandler struct {
	service services.BillingService
}

// NewBillHandler creates a new BillHandler instance.
func NewBillHandler(service services.BillingService) *BillHandler {
	return &BillHandler{service: service}
}

// GenerateBillsRequest is the body for POST /api/v1/bills/generate.
type GenerateBillsRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// TogglePaymentRequest is the body for PUT /api/v1/bills/:id/payment.
type TogglePaymentRequest struct {
	Field string `json:"field" binding:"required"`
}

// List handles GET /api/v1/bills with optional year/month params. Tenants
// only see their own bills.
func (h *BillHandler) List(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}

	bills, err := h.service.ListBills(c.Request.Context(), middleware.GetPrincipal(c), period)
	if err != nil {
		httperr.InternalServerError(c, "Failed to list bills", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills, "count": len(bills)})
}

// Generate handles POST /api/v1/bills/generate, running the utility
// allocation for one period.
func (h *BillHandler) Generate(c *gin.Context) {
	var req GenerateBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			httperr.ValidationError(c, validationErrors)
			return
		}
		httperr.BadRequest(c, "Invalid generate payload", nil)
		return
	}

	count, err := h.service.GenerateBills(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPeriod):
			httperr.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrNoActiveTenants):
			httperr.Conflict(c, "No active tenants to bill")
		default:
			httperr.InternalServerError(c, "Failed to generate bills", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bills generated", "count": count})
}

// TogglePayment handles PUT /api/v1/bills/:id/payment.
func (h *BillHandler) TogglePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req TogglePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid payment payload", nil)
		return
	}

	paid, err := h.service.TogglePayment(c.Request.Context(), id, req.Field)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPayField):
			httperr.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrBillNotFound):
			httperr.NotFound(c, "Monthly bill not found")
		default:
			httperr.InternalServerError(c, "Failed to toggle payment", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"field": req.Field, "paid": paid})
}
