package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/middleware"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/services"
)

// ReadingHandler handles meter-reading HTTP requests.
type ReadingHandler struct {
	service services.ReadingService
}

// NewReadingHandler creates a new ReadingHandler instance.
func NewReadingHandler(service services.ReadingService) *ReadingHandler {
	return &ReadingHandler{service: service}
}

// SubmitReadingRequest is the body for POST /api/v1/readings. Photo is
// base64, optionally with a data-URL prefix.
type SubmitReadingRequest struct {
	TenantID      int64    `json:"tenant_id"`
	Year          int      `json:"year" binding:"required"`
	Month         int      `json:"month" binding:"required,min=1,max=12"`
	UtilityType   string   `json:"utility_type" binding:"required"`
	ReadingValue  *float64 `json:"reading_value"`
	Photo         string   `json:"photo"`
	PhotoFilename string   `json:"photo_filename"`
}

// UpdateReadingRequest is the body for PUT /api/v1/readings/:id.
type UpdateReadingRequest struct {
	ReadingValue *float64 `json:"reading_value"`
}

// Submit handles POST /api/v1/readings.
func (h *ReadingHandler) Submit(c *gin.Context) {
	var req SubmitReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			httperr.ValidationError(c, validationErrors)
			return
		}
		httperr.BadRequest(c, "Invalid reading payload", nil)
		return
	}

	id, err := h.service.Submit(c.Request.Context(), middleware.GetPrincipal(c), services.SubmitReadingInput{
		TenantID:      req.TenantID,
		Year:          req.Year,
		Month:         req.Month,
		UtilityType:   models.UtilityType(req.UtilityType),
		ReadingValue:  req.ReadingValue,
		Photo:         req.Photo,
		PhotoFilename: req.PhotoFilename,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUtility),
			errors.Is(err, services.ErrInvalidPeriod),
			errors.Is(err, services.ErrBadPhoto):
			httperr.BadRequest(c, err.Error(), nil)
		default:
			httperr.InternalServerError(c, "Failed to save meter reading", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// List handles GET /api/v1/readings with optional year/month query params.
func (h *ReadingHandler) List(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}

	readings, err := h.service.List(c.Request.Context(), middleware.GetPrincipal(c), period)
	if err != nil {
		httperr.InternalServerError(c, "Failed to list meter readings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"readings": readings, "count": len(readings)})
}

// Update handles PUT /api/v1/readings/:id, overwriting the reading value.
func (h *ReadingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid reading payload", nil)
		return
	}

	if err := h.service.UpdateValue(c.Request.Context(), id, req.ReadingValue); err != nil {
		if errors.Is(err, services.ErrReadingNotFound) {
			httperr.NotFound(c, "Meter reading not found")
			return
		}
		httperr.InternalServerError(c, "Failed to update meter reading", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reading updated"})
}

// Photo handles GET /api/v1/readings/:id/photo, streaming the stored image.
func (h *ReadingHandler) Photo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	photo, err := h.service.GetPhoto(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPhotoNotFound):
			httperr.NotFound(c, "No photo for this reading")
		case errors.Is(err, services.ErrForbidden):
			httperr.Forbidden(c, "Not your reading")
		default:
			httperr.InternalServerError(c, "Failed to load reading photo", err)
		}
		return
	}

	c.Data(http.StatusOK, photoContentType(photo.Filename), photo.Photo)
}

// photoContentType derives the MIME type from the stored filename, falling
// back to JPEG.
func photoContentType(filename *string) string {
	if filename != nil {
		if t := mime.TypeByExtension(filepath.Ext(*filename)); t != "" {
			return t
		}
	}
	return "image/jpeg"
}

// queryPeriod parses optional year/month query params. Both must be present
// together.
func queryPeriod(c *gin.Context) (*models.Period, bool) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" && monthStr == "" {
		return nil, true
	}

	year, errY := strconv.Atoi(yearStr)
	month, errM := strconv.Atoi(monthStr)
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "year and month must be integers", nil)
		return nil, false
	}

	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		httperr.BadRequest(c, "year and month are out of range", nil)
		return nil, false
	}
	return &period, true
}
