package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/services"
)

// SettingsHandler handles building settings requests.
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/v1/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.All(c.Request.Context())
	if err != nil {
		httperr.InternalServerError(c, "Failed to load settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Update handles PUT /api/v1/settings with a flat key/value object.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid settings payload", nil)
		return
	}
	if len(req) == 0 {
		httperr.BadRequest(c, "No settings to update", nil)
		return
	}

	if err := h.service.Update(c.Request.Context(), req); err != nil {
		if errors.Is(err, services.ErrEmptySettingKey) {
			httperr.BadRequest(c, err.Error(), nil)
			return
		}
		httperr.InternalServerError(c, "Failed to update settings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "settings updated"})
}
