package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/session"
)

// Service-level errors for meter readings.
var (
	ErrReadingNotFound = errors.New("meter reading not found")
	ErrPhotoNotFound   = errors.New("reading photo not found")
	ErrBadPhoto        = errors.New("photo is not valid base64 data")
	ErrInvalidUtility  = errors.New("unrecognized utility type")
)

// SubmitReadingInput carries one meter-reading submission. Photo, when set,
// is base64-encoded image data, with or without a data-URL prefix.
type SubmitReadingInput struct {
	TenantID      int64
	Year          int
	Month         int
	UtilityType   models.UtilityType
	ReadingValue  *float64
	Photo         string
	PhotoFilename string
}

// ReadingService defines meter-reading submission and retrieval.
type ReadingService interface {
	// Submit inserts or merges one reading. Tenants may only write their
	// own rows; admins may write any. Returns the reading id.
	Submit(ctx context.Context, principal *session.Session, in SubmitReadingInput) (int64, error)

	// List returns readings visible to the principal, optionally narrowed
	// to one period.
	List(ctx context.Context, principal *session.Session, period *models.Period) ([]models.MeterReading, error)

	// UpdateValue overwrites one reading's value. Admin only at the route
	// level; the service just performs the write.
	UpdateValue(ctx context.Context, id int64, value *float64) error

	// GetPhoto returns the photo blob for one reading. Tenants may only
	// fetch photos on their own readings.
	GetPhoto(ctx context.Context, principal *session.Session, id int64) (*repository.ReadingPhoto, error)
}

type readingService struct {
	readings repository.MeterReadingRepository
	log      *logger.Logger
}

// NewReadingService creates a new ReadingService.
func NewReadingService(readings repository.MeterReadingRepository, log *logger.Logger) ReadingService {
	return &readingService{readings: readings, log: log}
}

func (s *readingService) Submit(ctx context.Context, principal *session.Session, in SubmitReadingInput) (int64, error) {
	if !in.UtilityType.Valid() {
		return 0, ErrInvalidUtility
	}
	period := models.Period{Year: in.Year, Month: in.Month}
	if !period.Valid() {
		return 0, ErrInvalidPeriod
	}

	tenantID := in.TenantID
	if principal != nil && !principal.IsAdmin() {
		tenantID = principal.TenantID
	}

	upsert := repository.ReadingUpsert{
		TenantID:     tenantID,
		Year:         in.Year,
		Month:        in.Month,
		UtilityType:  in.UtilityType,
		ReadingValue: in.ReadingValue,
	}

	if in.Photo != "" {
		photo, err := decodePhoto(in.Photo)
		if err != nil {
			return 0, err
		}
		upsert.Photo = photo
		if in.PhotoFilename != "" {
			filename := in.PhotoFilename
			upsert.PhotoFilename = &filename
		}
	}

	id, err := s.readings.Upsert(ctx, upsert, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to save meter reading: %w", err)
	}

	s.log.Info("Meter reading saved", map[string]interface{}{
		"reading_id": id,
		"tenant_id":  tenantID,
		"period":     period.String(),
		"utility":    string(in.UtilityType),
		"has_photo":  upsert.Photo != nil,
	})
	return id, nil
}

func (s *readingService) List(ctx context.Context, principal *session.Session, period *models.Period) ([]models.MeterReading, error) {
	filter := repository.ReadingFilter{Period: period}
	if principal != nil && !principal.IsAdmin() {
		tenantID := principal.TenantID
		filter.TenantID = &tenantID
	}

	readings, err := s.readings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list meter readings: %w", err)
	}
	return readings, nil
}

func (s *readingService) UpdateValue(ctx context.Context, id int64, value *float64) error {
	if err := s.readings.UpdateValue(ctx, id, value); err != nil {
		if isNoRows(err) {
			return ErrReadingNotFound
		}
		return fmt.Errorf("failed to update meter reading %d: %w", id, err)
	}
	return nil
}

func (s *readingService) GetPhoto(ctx context.Context, principal *session.Session, id int64) (*repository.ReadingPhoto, error) {
	photo, err := s.readings.GetPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading photo %d: %w", id, err)
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}
	if principal != nil && !principal.IsAdmin() && photo.TenantID != principal.TenantID {
		return nil, ErrForbidden
	}
	return photo, nil
}

// decodePhoto accepts raw base64 or a data URL ("data:image/jpeg;base64,...")
// and returns the decoded bytes.
func decodePhoto(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrBadPhoto
	}
	return data, nil
}
