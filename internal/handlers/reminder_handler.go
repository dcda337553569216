package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/services"
)

// ReminderHandler handles reminder-target queries.
type ReminderHandler struct {
	service services.ReminderService
}

// NewReminderHandler creates a new ReminderHandler instance.
func NewReminderHandler(service services.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// MeterTargets handles GET /api/v1/reminders/meters?year=&month=.
func (h *ReminderHandler) MeterTargets(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}
	if period == nil {
		httperr.BadRequest(c, "year and month are required", nil)
		return
	}

	targets, err := h.service.MeterTargets(c.Request.Context(), period.Year, period.Month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			httperr.BadRequest(c, err.Error(), nil)
			return
		}
		httperr.InternalServerError(c, "Failed to list meter reminder targets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"targets": targets, "count": len(targets)})
}

// PaymentTargets handles GET /api/v1/reminders/payments?year=&month=.
func (h *ReminderHandler) PaymentTargets(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}
	if period == nil {
		httperr.BadRequest(c, "year and month are required", nil)
		return
	}

	targets, err := h.service.PaymentTargets(c.Request.Context(), period.Year, period.Month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			httperr.BadRequest(c, err.Error(), nil)
			return
		}
		httperr.InternalServerError(c, "Failed to list payment reminder targets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"targets": targets, "count": len(targets)})
}
