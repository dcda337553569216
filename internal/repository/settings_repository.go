package repository

import (
	"context"
	"fmt"

	"github.com/tandangji/rental/internal/database"
)

// SettingsRepository defines the data access operations for the building's
// key-value settings.
type SettingsRepository interface {
	// All returns every setting as a key-value map.
	All(ctx context.Context) (map[string]string, error)

	// Set upserts one setting.
	Set(ctx context.Context, key, value string) error
}

type settingsRepository struct {
	db *database.Database
}

// NewSettingsRepository creates a new SettingsRepository backed by PostgreSQL.
func NewSettingsRepository(db *database.Database) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}
	return settings, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}
