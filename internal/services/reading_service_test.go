package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
)

func TestSubmitReading_TenantOverridesTargetTenant(t *testing.T) {
	// Arrange
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	ctx := context.Background()
	value := 42.5
	mockRepo.On("Upsert", ctx, mock.MatchedBy(func(u repository.ReadingUpsert) bool {
		// The principal's own id wins over whatever was submitted.
		return u.TenantID == 3 && u.ReadingValue != nil && *u.ReadingValue == 42.5
	}), mock.Anything).Return(int64(11), nil)

	// Act
	id, err := service.Submit(ctx, tenantPrincipal(3), SubmitReadingInput{
		TenantID:     99,
		Year:         2026,
		Month:        7,
		UtilityType:  models.UtilityGas,
		ReadingValue: &value,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	mockRepo.AssertExpectations(t)
}

func TestSubmitReading_DecodesDataURLPhoto(t *testing.T) {
	// Arrange
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	ctx := context.Background()
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	encoded := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	var saved repository.ReadingUpsert
	mockRepo.On("Upsert", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(repository.ReadingUpsert)
		}).
		Return(int64(12), nil)

	// Act
	_, err := service.Submit(ctx, adminPrincipal(), SubmitReadingInput{
		TenantID:      3,
		Year:          2026,
		Month:         7,
		UtilityType:   models.UtilityWater,
		Photo:         encoded,
		PhotoFilename: "meter.jpg",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, raw, saved.Photo)
	require.NotNil(t, saved.PhotoFilename)
	assert.Equal(t, "meter.jpg", *saved.PhotoFilename)
}

func TestSubmitReading_BadBase64Rejected(t *testing.T) {
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	_, err := service.Submit(context.Background(), adminPrincipal(), SubmitReadingInput{
		TenantID:    3,
		Year:        2026,
		Month:       7,
		UtilityType: models.UtilityGas,
		Photo:       "not!!base64",
	})

	assert.ErrorIs(t, err, ErrBadPhoto)
	mockRepo.AssertNotCalled(t, "Upsert")
}

func TestSubmitReading_UnknownUtility(t *testing.T) {
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	_, err := service.Submit(context.Background(), adminPrincipal(), SubmitReadingInput{
		TenantID:    3,
		Year:        2026,
		Month:       7,
		UtilityType: models.UtilityType("steam"),
	})

	assert.ErrorIs(t, err, ErrInvalidUtility)
	mockRepo.AssertNotCalled(t, "Upsert")
}

func TestListReadings_TenantScoped(t *testing.T) {
	// Arrange
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("List", ctx, mock.MatchedBy(func(f repository.ReadingFilter) bool {
		return f.TenantID != nil && *f.TenantID == 3
	})).Return([]models.MeterReading{}, nil)

	// Act
	_, err := service.List(ctx, tenantPrincipal(3), nil)

	// Assert
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGetPhoto_TenantCannotReadOthers(t *testing.T) {
	// Arrange
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("GetPhoto", ctx, int64(5)).Return(&repository.ReadingPhoto{
		TenantID: 7,
		Photo:    []byte{1, 2, 3},
	}, nil)

	// Act
	photo, err := service.GetPhoto(ctx, tenantPrincipal(3), 5)

	// Assert
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, photo)
}

func TestGetPhoto_NotFound(t *testing.T) {
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("GetPhoto", ctx, int64(5)).Return(nil, nil)

	photo, err := service.GetPhoto(ctx, adminPrincipal(), 5)

	assert.ErrorIs(t, err, ErrPhotoNotFound)
	assert.Nil(t, photo)
}

func TestUpdateReadingValue_NotFound(t *testing.T) {
	mockRepo := new(MockMeterReadingRepository)
	log := logger.New("test")
	service := NewReadingService(mockRepo, log)

	ctx := context.Background()
	value := 10.0
	mockRepo.On("UpdateValue", ctx, int64(99), &value).Return(pgx.ErrNoRows)

	err := service.UpdateValue(ctx, 99, &value)

	assert.ErrorIs(t, err, ErrReadingNotFound)
}
