package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/repository"
)

// ErrEmptySettingKey is returned when a settings write names no key.
var ErrEmptySettingKey = errors.New("setting key must not be empty")

// SettingsService exposes the landlord/building key-value settings.
type SettingsService interface {
	// All returns every stored setting.
	All(ctx context.Context) (map[string]string, error)

	// Update writes the given settings, creating keys as needed.
	Update(ctx context.Context, values map[string]string) error
}

type settingsService struct {
	settings repository.SettingsRepository
	log      *logger.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settings repository.SettingsRepository, log *logger.Logger) SettingsService {
	return &settingsService{settings: settings, log: log}
}

func (s *settingsService) All(ctx context.Context) (map[string]string, error) {
	values, err := s.settings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return values, nil
}

func (s *settingsService) Update(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		if key == "" {
			return ErrEmptySettingKey
		}
		if err := s.settings.Set(ctx, key, value); err != nil {
			return fmt.Errorf("failed to save setting %q: %w", key, err)
		}
	}

	s.log.Info("Settings updated", map[string]interface{}{
		"keys": len(values),
	})
	return nil
}
