package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/services"
)

func TestCreateTenantHandler_Success(t *testing.T) {
	// Arrange
	mockService := new(MockTenantService)
	handler := NewTenantHandler(mockService)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(tn models.Tenant) bool {
		return tn.Floor == 5 && tn.CompanyName == "Acme" && tn.RentAmount == 500000
	})).Return(int64(10), nil)

	// Act
	w := performRequest(http.MethodPost, "/api/v1/tenants", gin.H{
		"floor":        5,
		"company_name": "Acme",
		"rent_amount":  500000,
		"lease_start":  "2026-01-01",
	}, func(r *gin.Engine) {
		r.POST("/api/v1/tenants", handler.Create)
	})

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	mockService.AssertExpectations(t)
}

func TestCreateTenantHandler_FloorConflict(t *testing.T) {
	mockService := new(MockTenantService)
	handler := NewTenantHandler(mockService)

	mockService.On("Create", mock.Anything, mock.Anything).Return(int64(0), services.ErrFloorTaken)

	w := performRequest(http.MethodPost, "/api/v1/tenants", gin.H{
		"floor":        5,
		"company_name": "Acme",
	}, func(r *gin.Engine) {
		r.POST("/api/v1/tenants", handler.Create)
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateTenantHandler_MissingCompanyName(t *testing.T) {
	mockService := new(MockTenantService)
	handler := NewTenantHandler(mockService)

	w := performRequest(http.MethodPost, "/api/v1/tenants", gin.H{
		"floor": 5,
	}, func(r *gin.Engine) {
		r.POST("/api/v1/tenants", handler.Create)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestCreateTenantHandler_BadLeaseDate(t *testing.T) {
	mockService := new(MockTenantService)
	handler := NewTenantHandler(mockService)

	w := performRequest(http.MethodPost, "/api/v1/tenants", gin.H{
		"floor":        5,
		"company_name": "Acme",
		"lease_start":  "July 1st",
	}, func(r *gin.Engine) {
		r.POST("/api/v1/tenants", handler.Create)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestUpdateTenantHandler_NotFound(t *testing.T) {
	mockService := new(MockTenantService)
	handler := NewTenantHandler(mockService)

	mockService.On("Update", mock.Anything, int64(99), mock.Anything).Return(services.ErrTenantNotFound)

	w := performRequest(http.MethodPut, "/api/v1/tenants/99", gin.H{
		"company_name": "Acme",
	}, func(r *gin.Engine) {
		r.PUT("/api/v1/tenants/:id", handler.Update)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTenantHandler_PatchMapped(t *testing.T) {
	// Arrange
	mockService := new(MockTenantService)
	handler := NewTenantHandler(mockService)

	mockService.On("Update", mock.Anything, int64(7), mock.MatchedBy(func(p repository.TenantPatch) bool {
		return p.Floor != nil && *p.Floor == 6 &&
			p.PaymentType != nil && *p.PaymentType == models.PaymentPostpaid &&
			p.CompanyName == nil
	})).Return(nil)

	// Act
	w := performRequest(http.MethodPut, "/api/v1/tenants/7", gin.H{
		"floor":        6,
		"payment_type": "postpaid",
	}, func(r *gin.Engine) {
		r.PUT("/api/v1/tenants/:id", handler.Update)
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteTenantHandler_Success(t *testing.T) {
	mockService := new(MockTenantService)
	handler := NewTenantHandler(mockService)

	mockService.On("Delete", mock.Anything, int64(7)).Return(nil)

	w := performRequest(http.MethodDelete, "/api/v1/tenants/7", nil, func(r *gin.Engine) {
		r.DELETE("/api/v1/tenants/:id", handler.Delete)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
