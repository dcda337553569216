package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/middleware"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/services"
)

// TenantHandler handles tenant registry HTTP requests.
type TenantHandler struct {
	service services.TenantService
}

// NewTenantHandler creates a new TenantHandler instance.
func NewTenantHandler(service services.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// CreateTenantRequest is the body for POST /api/v1/tenants.
type CreateTenantRequest struct {
	Floor          int     `json:"floor" binding:"required,min=1"`
	CompanyName    string  `json:"company_name" binding:"required"`
	BusinessNumber *string `json:"business_number"`
	Representative *string `json:"representative"`
	BusinessType   *string `json:"business_type"`
	BusinessItem   *string `json:"business_item"`
	Address        *string `json:"address"`
	ContactPhone   *string `json:"contact_phone"`
	Email          *string `json:"email"`
	Password       string  `json:"password"`
	RentAmount     int64   `json:"rent_amount" binding:"min=0"`
	MaintenanceFee int64   `json:"maintenance_fee" binding:"min=0"`
	DepositAmount  int64   `json:"deposit_amount" binding:"min=0"`
	LeaseStart     *string `json:"lease_start"`
	LeaseEnd       *string `json:"lease_end"`
	BillingDay     int     `json:"billing_day"`
	PaymentType    string  `json:"payment_type"`
}

// UpdateTenantRequest is the body for PUT /api/v1/tenants/:id. Absent fields
// keep their stored values.
type UpdateTenantRequest struct {
	Floor          *int    `json:"floor"`
	CompanyName    *string `json:"company_name"`
	BusinessNumber *string `json:"business_number"`
	Representative *string `json:"representative"`
	BusinessType   *string `json:"business_type"`
	BusinessItem   *string `json:"business_item"`
	Address        *string `json:"address"`
	ContactPhone   *string `json:"contact_phone"`
	Email          *string `json:"email"`
	Password       string  `json:"password"`
	RentAmount     *int64  `json:"rent_amount"`
	MaintenanceFee *int64  `json:"maintenance_fee"`
	DepositAmount  *int64  `json:"deposit_amount"`
	LeaseStart     *string `json:"lease_start"`
	LeaseEnd       *string `json:"lease_end"`
	BillingDay     *int    `json:"billing_day"`
	PaymentType    *string `json:"payment_type"`
	IsActive       *bool   `json:"is_active"`
}

// ChangePasswordRequest is the body for PUT /api/v1/tenants/password.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// List handles GET /api/v1/tenants.
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		httperr.InternalServerError(c, "Failed to list tenants", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

// Create handles POST /api/v1/tenants.
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			httperr.ValidationError(c, validationErrors)
			return
		}
		httperr.BadRequest(c, "Invalid tenant payload", nil)
		return
	}

	leaseStart, err := parseDate(req.LeaseStart)
	if err != nil {
		httperr.BadRequest(c, "lease_start must be YYYY-MM-DD", nil)
		return
	}
	leaseEnd, err := parseDate(req.LeaseEnd)
	if err != nil {
		httperr.BadRequest(c, "lease_end must be YYYY-MM-DD", nil)
		return
	}

	tenant := models.Tenant{
		Floor:          req.Floor,
		CompanyName:    req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		Representative: req.Representative,
		BusinessType:   req.BusinessType,
		BusinessItem:   req.BusinessItem,
		Address:        req.Address,
		ContactPhone:   req.ContactPhone,
		Email:          req.Email,
		Password:       req.Password,
		RentAmount:     req.RentAmount,
		MaintenanceFee: req.MaintenanceFee,
		DepositAmount:  req.DepositAmount,
		LeaseStart:     leaseStart,
		LeaseEnd:       leaseEnd,
		BillingDay:     req.BillingDay,
		PaymentType:    models.PaymentType(req.PaymentType),
	}

	id, err := h.service.Create(c.Request.Context(), tenant)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFloorTaken):
			httperr.Conflict(c, "Floor already has a registered tenant")
		case errors.Is(err, services.ErrInvalidBillingDay),
			errors.Is(err, services.ErrInvalidPayType):
			httperr.BadRequest(c, err.Error(), nil)
		default:
			httperr.InternalServerError(c, "Failed to create tenant", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update handles PUT /api/v1/tenants/:id.
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid tenant payload", nil)
		return
	}

	leaseStart, err := parseDate(req.LeaseStart)
	if err != nil {
		httperr.BadRequest(c, "lease_start must be YYYY-MM-DD", nil)
		return
	}
	leaseEnd, err := parseDate(req.LeaseEnd)
	if err != nil {
		httperr.BadRequest(c, "lease_end must be YYYY-MM-DD", nil)
		return
	}

	patch := repository.TenantPatch{
		Floor:          req.Floor,
		CompanyName:    req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		Representative: req.Representative,
		BusinessType:   req.BusinessType,
		BusinessItem:   req.BusinessItem,
		Address:        req.Address,
		ContactPhone:   req.ContactPhone,
		Email:          req.Email,
		Password:       req.Password,
		RentAmount:     req.RentAmount,
		MaintenanceFee: req.MaintenanceFee,
		DepositAmount:  req.DepositAmount,
		LeaseStart:     leaseStart,
		LeaseEnd:       leaseEnd,
		BillingDay:     req.BillingDay,
		IsActive:       req.IsActive,
	}
	if req.PaymentType != nil {
		pt := models.PaymentType(*req.PaymentType)
		patch.PaymentType = &pt
	}

	if err := h.service.Update(c.Request.Context(), id, patch); err != nil {
		switch {
		case errors.Is(err, services.ErrTenantNotFound):
			httperr.NotFound(c, "Tenant not found")
		case errors.Is(err, services.ErrFloorTaken):
			httperr.Conflict(c, "Floor already has a registered tenant")
		case errors.Is(err, services.ErrInvalidBillingDay),
			errors.Is(err, services.ErrInvalidPayType):
			httperr.BadRequest(c, err.Error(), nil)
		default:
			httperr.InternalServerError(c, "Failed to update tenant", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tenant updated"})
}

// Delete handles DELETE /api/v1/tenants/:id.
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			httperr.NotFound(c, "Tenant not found")
			return
		}
		httperr.InternalServerError(c, "Failed to delete tenant", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tenant deleted"})
}

// ChangePassword handles PUT /api/v1/tenants/password for the logged-in
// tenant.
func (h *TenantHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid password payload", nil)
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), middleware.GetPrincipal(c), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			httperr.Forbidden(c, "Only tenants can change their password here")
		case errors.Is(err, services.ErrPasswordRequired):
			httperr.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrTenantNotFound):
			httperr.NotFound(c, "Tenant not found")
		default:
			httperr.InternalServerError(c, "Failed to change password", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// pathID parses a positive integer path parameter, responding with a 400 on
// failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "Invalid "+name+" parameter", nil)
		return 0, false
	}
	return id, true
}

// parseDate parses an optional YYYY-MM-DD string.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
