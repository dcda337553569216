package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tandangji/rental/internal/database"
	"github.com/tandangji/rental/internal/models"
)

// BuildingBillRepository defines the data access operations for building-wide
// utility totals.
type BuildingBillRepository interface {
	// Upsert writes the totals for one period, overwriting any prior entry,
	// and returns the row id.
	Upsert(ctx context.Context, b *models.BuildingBill) (int64, error)

	// GetByPeriod returns the totals for one period, or nil, nil when the
	// admin has not entered them yet.
	GetByPeriod(ctx context.Context, year, month int) (*models.BuildingBill, error)

	// List returns entries newest-first, optionally narrowed to one period.
	List(ctx context.Context, period *models.Period) ([]models.BuildingBill, error)
}

type buildingBillRepository struct {
	db *database.Database
}

// NewBuildingBillRepository creates a new BuildingBillRepository backed by
// PostgreSQL.
func NewBuildingBillRepository(db *database.Database) BuildingBillRepository {
	return &buildingBillRepository{db: db}
}

func (r *buildingBillRepository) Upsert(ctx context.Context, b *models.BuildingBill) (int64, error) {
	query := `
		INSERT INTO building_bills (year, month, gas_total, electricity_total, water_total)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, month) DO UPDATE SET
			gas_total = EXCLUDED.gas_total,
			electricity_total = EXCLUDED.electricity_total,
			water_total = EXCLUDED.water_total
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		b.Year, b.Month, b.GasTotal, b.ElectricityTotal, b.WaterTotal,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert building bill %d-%d: %w", b.Year, b.Month, err)
	}
	return id, nil
}

func (r *buildingBillRepository) GetByPeriod(ctx context.Context, year, month int) (*models.BuildingBill, error) {
	var b models.BuildingBill
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, year, month, gas_total, electricity_total, water_total, created_at
		 FROM building_bills WHERE year = $1 AND month = $2`,
		year, month,
	).Scan(&b.ID, &b.Year, &b.Month, &b.GasTotal, &b.ElectricityTotal, &b.WaterTotal, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query building bill %d-%d: %w", year, month, err)
	}
	return &b, nil
}

func (r *buildingBillRepository) List(ctx context.Context, period *models.Period) ([]models.BuildingBill, error) {
	query := `SELECT id, year, month, gas_total, electricity_total, water_total, created_at
		FROM building_bills`
	var args []interface{}
	if period != nil {
		query += ` WHERE year = $1 AND month = $2`
		args = append(args, period.Year, period.Month)
	}
	query += ` ORDER BY year DESC, month DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query building bills: %w", err)
	}
	defer rows.Close()

	var bills []models.BuildingBill
	for rows.Next() {
		var b models.BuildingBill
		if err := rows.Scan(&b.ID, &b.Year, &b.Month, &b.GasTotal, &b.ElectricityTotal, &b.WaterTotal, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan building bill row: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating building bill rows: %w", err)
	}

	if bills == nil {
		bills = []models.BuildingBill{}
	}
	return bills, nil
}
