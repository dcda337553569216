package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tandangji/rental/internal/database"
	"github.com/tandangji/rental/internal/models"
)

// ReadingUpsert carries one meter-reading write. Nil ReadingValue and nil
// Photo preserve whatever is already stored; non-nil values overwrite.
type ReadingUpsert struct {
	TenantID      int64
	Year          int
	Month         int
	UtilityType   models.UtilityType
	ReadingValue  *float64
	Photo         []byte
	PhotoFilename *string
}

// ReadingPhoto is the photo payload for one reading.
type ReadingPhoto struct {
	TenantID int64
	Photo    []byte
	Filename *string
}

// ReadingFilter narrows reading list queries.
type ReadingFilter struct {
	TenantID *int64
	Period   *models.Period
}

// MeterReadingRepository defines the data access operations for meter
// readings.
type MeterReadingRepository interface {
	// Upsert inserts or merges one reading row and returns its id.
	// uploadedAt is stamped only when a photo is part of the write.
	Upsert(ctx context.Context, u ReadingUpsert, uploadedAt time.Time) (int64, error)

	// List returns readings joined with tenant floor/company, photo blob
	// excluded, ordered by floor then utility type.
	List(ctx context.Context, f ReadingFilter) ([]models.MeterReading, error)

	// UpdateValue overwrites one reading's value by id.
	UpdateValue(ctx context.Context, id int64, value *float64) error

	// GetPhoto returns the photo for one reading, or nil, nil when the row
	// or the photo is absent.
	GetPhoto(ctx context.Context, id int64) (*ReadingPhoto, error)

	// UsageByTenant returns each tenant's recorded usage for one utility in
	// one period. Rows with a NULL value are omitted; having no entry means
	// the tenant has no usable reading.
	UsageByTenant(ctx context.Context, year, month int, utility models.UtilityType) (map[int64]float64, error)

	// PhotoCountByTenant returns, per tenant, the number of distinct
	// utilities with a photo uploaded for the period.
	PhotoCountByTenant(ctx context.Context, year, month int) (map[int64]int, error)
}

type meterReadingRepository struct {
	db *database.Database
}

// NewMeterReadingRepository creates a new MeterReadingRepository backed by
// PostgreSQL.
func NewMeterReadingRepository(db *database.Database) MeterReadingRepository {
	return &meterReadingRepository{db: db}
}

func (r *meterReadingRepository) Upsert(ctx context.Context, u ReadingUpsert, uploadedAt time.Time) (int64, error) {
	// The CASE keeps uploaded_at meaning "when the photo arrived": writes
	// without a photo never touch it.
	query := `
		INSERT INTO meter_readings
			(tenant_id, year, month, utility_type, reading_value, photo, photo_filename, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			CASE WHEN $6::bytea IS NOT NULL THEN $8::timestamptz ELSE NULL END)
		ON CONFLICT (tenant_id, year, month, utility_type) DO UPDATE SET
			reading_value = COALESCE(EXCLUDED.reading_value, meter_readings.reading_value),
			photo = COALESCE(EXCLUDED.photo, meter_readings.photo),
			photo_filename = COALESCE(EXCLUDED.photo_filename, meter_readings.photo_filename),
			uploaded_at = CASE WHEN EXCLUDED.photo IS NOT NULL THEN $8::timestamptz ELSE meter_readings.uploaded_at END
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		u.TenantID,
		u.Year,
		u.Month,
		u.UtilityType,
		u.ReadingValue,
		u.Photo,
		u.PhotoFilename,
		uploadedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert meter reading: %w", err)
	}
	return id, nil
}

func (r *meterReadingRepository) List(ctx context.Context, f ReadingFilter) ([]models.MeterReading, error) {
	query := `
		SELECT mr.id, mr.tenant_id, mr.year, mr.month, mr.utility_type,
			mr.reading_value, mr.photo_filename, mr.photo IS NOT NULL,
			mr.uploaded_at, mr.created_at, t.floor, t.company_name
		FROM meter_readings mr
		JOIN tenants t ON mr.tenant_id = t.id
		WHERE 1=1`

	var args []interface{}
	if f.TenantID != nil {
		args = append(args, *f.TenantID)
		query += fmt.Sprintf(" AND mr.tenant_id = $%d", len(args))
	}
	if f.Period != nil {
		args = append(args, f.Period.Year)
		query += fmt.Sprintf(" AND mr.year = $%d", len(args))
		args = append(args, f.Period.Month)
		query += fmt.Sprintf(" AND mr.month = $%d", len(args))
	}
	query += " ORDER BY t.floor ASC, mr.utility_type ASC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meter readings: %w", err)
	}
	defer rows.Close()

	var readings []models.MeterReading
	for rows.Next() {
		var m models.MeterReading
		err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Year,
			&m.Month,
			&m.UtilityType,
			&m.ReadingValue,
			&m.PhotoFilename,
			&m.HasPhoto,
			&m.UploadedAt,
			&m.CreatedAt,
			&m.Floor,
			&m.CompanyName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meter reading row: %w", err)
		}
		readings = append(readings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meter reading rows: %w", err)
	}

	if readings == nil {
		readings = []models.MeterReading{}
	}
	return readings, nil
}

func (r *meterReadingRepository) UpdateValue(ctx context.Context, id int64, value *float64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE meter_readings SET reading_value = $1 WHERE id = $2`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update meter reading %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *meterReadingRepository) GetPhoto(ctx context.Context, id int64) (*ReadingPhoto, error) {
	var p ReadingPhoto
	err := r.db.Pool.QueryRow(ctx,
		`SELECT tenant_id, photo, photo_filename FROM meter_readings WHERE id = $1`, id,
	).Scan(&p.TenantID, &p.Photo, &p.Filename)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query reading photo %d: %w", id, err)
	}
	if p.Photo == nil {
		return nil, nil
	}
	return &p, nil
}

func (r *meterReadingRepository) UsageByTenant(ctx context.Context, year, month int, utility models.UtilityType) (map[int64]float64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT tenant_id, reading_value
		 FROM meter_readings
		 WHERE year = $1 AND month = $2 AND utility_type = $3 AND reading_value IS NOT NULL`,
		year, month, utility,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query usages for %s %d-%d: %w", utility, year, month, err)
	}
	defer rows.Close()

	usages := make(map[int64]float64)
	for rows.Next() {
		var tenantID int64
		var value float64
		if err := rows.Scan(&tenantID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		usages[tenantID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage rows: %w", err)
	}
	return usages, nil
}

func (r *meterReadingRepository) PhotoCountByTenant(ctx context.Context, year, month int) (map[int64]int, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT tenant_id, COUNT(DISTINCT utility_type)
		 FROM meter_readings
		 WHERE year = $1 AND month = $2 AND photo IS NOT NULL
		 GROUP BY tenant_id`,
		year, month,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query photo counts for %d-%d: %w", year, month, err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var tenantID int64
		var count int
		if err := rows.Scan(&tenantID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan photo count row: %w", err)
		}
		counts[tenantID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo count rows: %w", err)
	}
	return counts, nil
}
