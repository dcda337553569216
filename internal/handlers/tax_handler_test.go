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
	"github.com/tandangji/rental/internal/services"
	"github.com/tandangji/rental/internal/session"
)

func TestTaxList_RequiresPeriod(t *testing.T) {
	mockService := new(MockTaxService)
	handler := NewTaxHandler(mockService)

	w := performRequest(http.MethodGet, "/api/v1/tax-invoices", nil, func(r *gin.Engine) {
		r.GET("/api/v1/tax-invoices", handler.List)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListItems")
}

func TestTaxList_ReturnsItems(t *testing.T) {
	// Arrange
	mockService := new(MockTaxService)
	handler := NewTaxHandler(mockService)

	mockService.On("ListItems", mock.Anything, mock.Anything, 2026, 7).Return([]models.TaxItem{
		{BillID: 1, TenantID: 3, ItemType: models.ItemRent, SupplyAmount: 100000, TaxAmount: 10000, TotalAmount: 110000},
	}, nil)

	// Act
	w := performRequest(http.MethodGet, "/api/v1/tax-invoices?year=2026&month=7", nil, func(r *gin.Engine) {
		r.GET("/api/v1/tax-invoices", handler.List)
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.TaxItem `json:"items"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, int64(110000), resp.Items[0].TotalAmount)
}

func TestTaxList_ForwardsPrincipal(t *testing.T) {
	// Arrange
	mockService := new(MockTaxService)
	handler := NewTaxHandler(mockService)

	sess := &session.Session{Role: session.RoleTenant, TenantID: 3, Floor: 3}
	mockService.On("ListItems", mock.Anything, sess, 2026, 7).
		Return([]models.TaxItem{}, nil)

	// Act
	w := performRequest(http.MethodGet, "/api/v1/tax-invoices?year=2026&month=7", nil, func(r *gin.Engine) {
		r.GET("/api/v1/tax-invoices", func(c *gin.Context) {
			c.Set("principal", sess)
		}, handler.List)
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestTaxToggle_Success(t *testing.T) {
	// Arrange
	mockService := new(MockTaxService)
	handler := NewTaxHandler(mockService)

	mockService.On("ToggleIssued", mock.Anything, int64(3), 2026, 7, models.ItemRent).Return(true, nil)

	// Act
	w := performRequest(http.MethodPut, "/api/v1/tax-invoices/toggle", gin.H{
		"tenant_id": 3,
		"year":      2026,
		"month":     7,
		"item_type": "rent",
	}, func(r *gin.Engine) {
		r.PUT("/api/v1/tax-invoices/toggle", handler.Toggle)
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		IsIssued bool `json:"is_issued"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsIssued)
	mockService.AssertExpectations(t)
}

func TestTaxToggle_NoBill(t *testing.T) {
	mockService := new(MockTaxService)
	handler := NewTaxHandler(mockService)

	mockService.On("ToggleIssued", mock.Anything, int64(3), 2026, 7, models.ItemWater).
		Return(false, services.ErrBillNotFound)

	w := performRequest(http.MethodPut, "/api/v1/tax-invoices/toggle", gin.H{
		"tenant_id": 3,
		"year":      2026,
		"month":     7,
		"item_type": "water",
	}, func(r *gin.Engine) {
		r.PUT("/api/v1/tax-invoices/toggle", handler.Toggle)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaxToggle_UnknownItem(t *testing.T) {
	mockService := new(MockTaxService)
	handler := NewTaxHandler(mockService)

	mockService.On("ToggleIssued", mock.Anything, int64(3), 2026, 7, models.BillItem("deposit")).
		Return(false, services.ErrInvalidItemType)

	w := performRequest(http.MethodPut, "/api/v1/tax-invoices/toggle", gin.H{
		"tenant_id": 3,
		"year":      2026,
		"month":     7,
		"item_type": "deposit",
	}, func(r *gin.Engine) {
		r.PUT("/api/v1/tax-invoices/toggle", handler.Toggle)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
