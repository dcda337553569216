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

// BillRow is one monthly-bill write: the tenant's contract terms plus the
// computed utility shares for the period.
type BillRow struct {
	TenantID          int64
	Year              int
	Month             int
	RentAmount        int64
	MaintenanceFee    int64
	GasAmount         int64
	ElectricityAmount int64
	WaterAmount       int64
}

// BillFilter narrows monthly-bill list queries.
type BillFilter struct {
	TenantID *int64
	Period   *models.Period
}

// MonthlyBillRepository defines the data access operations for monthly bills.
type MonthlyBillRepository interface {
	// List returns bills joined with tenant floor/company, ordered by floor.
	List(ctx context.Context, f BillFilter) ([]models.MonthlyBill, error)

	// GetByID returns one bill, or nil, nil when absent.
	GetByID(ctx context.Context, id int64) (*models.MonthlyBill, error)

	// InsertIfAbsent inserts a bill row, doing nothing when the tenant
	// already has one for the period. The uniqueness constraint is the
	// concurrency guard; the return value reports whether a row was
	// actually created.
	InsertIfAbsent(ctx context.Context, row BillRow) (bool, error)

	// UpsertUtilityBatch writes every row in a single transaction. Existing
	// bills keep their rent/maintenance and paid state and get only the
	// three utility amounts rewritten; missing bills are created whole.
	UpsertUtilityBatch(ctx context.Context, rows []BillRow) error

	// SetPaid updates one recognized paid flag and its date column.
	SetPaid(ctx context.Context, id int64, field string, paid bool, paidDate *time.Time) error

	// ListUnpaid returns the period's bills that still have any unpaid flag,
	// joined with tenant contact details.
	ListUnpaid(ctx context.Context, year, month int) ([]models.MonthlyBill, error)
}

type monthlyBillRepository struct {
	db *database.Database
}

// NewMonthlyBillRepository creates a new MonthlyBillRepository backed by
// PostgreSQL.
func NewMonthlyBillRepository(db *database.Database) MonthlyBillRepository {
	return &monthlyBillRepository{db: db}
}

const billColumns = `
	mb.id, mb.tenant_id, mb.year, mb.month, mb.rent_amount, mb.maintenance_fee,
	mb.gas_amount, mb.electricity_amount, mb.water_amount,
	mb.rent_paid, mb.maintenance_paid, mb.gas_paid, mb.electricity_paid, mb.water_paid,
	mb.rent_paid_date, mb.maintenance_paid_date, mb.gas_paid_date,
	mb.electricity_paid_date, mb.water_paid_date, mb.memo, mb.created_at,
	t.floor, t.company_name`

func scanBill(row pgx.Row) (*models.MonthlyBill, error) {
	var b models.MonthlyBill
	err := row.Scan(
		&b.ID,
		&b.TenantID,
		&b.Year,
		&b.Month,
		&b.RentAmount,
		&b.MaintenanceFee,
		&b.GasAmount,
		&b.ElectricityAmount,
		&b.WaterAmount,
		&b.RentPaid,
		&b.MaintenancePaid,
		&b.GasPaid,
		&b.ElectricityPaid,
		&b.WaterPaid,
		&b.RentPaidDate,
		&b.MaintenancePaidDate,
		&b.GasPaidDate,
		&b.ElectricityPaidDate,
		&b.WaterPaidDate,
		&b.Memo,
		&b.CreatedAt,
		&b.Floor,
		&b.CompanyName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *monthlyBillRepository) collect(ctx context.Context, query string, args ...interface{}) ([]models.MonthlyBill, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly bills: %w", err)
	}
	defer rows.Close()

	var bills []models.MonthlyBill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly bill row: %w", err)
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly bill rows: %w", err)
	}

	if bills == nil {
		bills = []models.MonthlyBill{}
	}
	return bills, nil
}

func (r *monthlyBillRepository) List(ctx context.Context, f BillFilter) ([]models.MonthlyBill, error) {
	query := `SELECT` + billColumns + `
		FROM monthly_bills mb
		JOIN tenants t ON mb.tenant_id = t.id
		WHERE 1=1`

	var args []interface{}
	if f.TenantID != nil {
		args = append(args, *f.TenantID)
		query += fmt.Sprintf(" AND mb.tenant_id = $%d", len(args))
	}
	if f.Period != nil {
		args = append(args, f.Period.Year)
		query += fmt.Sprintf(" AND mb.year = $%d", len(args))
		args = append(args, f.Period.Month)
		query += fmt.Sprintf(" AND mb.month = $%d", len(args))
	}
	query += " ORDER BY t.floor ASC"

	return r.collect(ctx, query, args...)
}

func (r *monthlyBillRepository) GetByID(ctx context.Context, id int64) (*models.MonthlyBill, error) {
	query := `SELECT` + billColumns + `
		FROM monthly_bills mb
		JOIN tenants t ON mb.tenant_id = t.id
		WHERE mb.id = $1`

	b, err := scanBill(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query monthly bill %d: %w", id, err)
	}
	return b, nil
}

func (r *monthlyBillRepository) InsertIfAbsent(ctx context.Context, row BillRow) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`INSERT INTO monthly_bills
			(tenant_id, year, month, rent_amount, maintenance_fee, gas_amount, electricity_amount, water_amount)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (tenant_id, year, month) DO NOTHING`,
		row.TenantID, row.Year, row.Month,
		row.RentAmount, row.MaintenanceFee,
		row.GasAmount, row.ElectricityAmount, row.WaterAmount,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert monthly bill for tenant %d %d-%d: %w",
			row.TenantID, row.Year, row.Month, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Rent and maintenance only apply on first insert; existing bills keep the
// terms they were created with, and paid state is never touched here.
const upsertBillQuery = `
	INSERT INTO monthly_bills
		(tenant_id, year, month, rent_amount, maintenance_fee, gas_amount, electricity_amount, water_amount)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (tenant_id, year, month) DO UPDATE SET
		gas_amount = EXCLUDED.gas_amount,
		electricity_amount = EXCLUDED.electricity_amount,
		water_amount = EXCLUDED.water_amount`

func (r *monthlyBillRepository) UpsertUtilityBatch(ctx context.Context, rows []BillRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin allocation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		_, err := tx.Exec(ctx, upsertBillQuery,
			row.TenantID, row.Year, row.Month,
			row.RentAmount, row.MaintenanceFee,
			row.GasAmount, row.ElectricityAmount, row.WaterAmount,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert monthly bill for tenant %d %d-%d: %w",
				row.TenantID, row.Year, row.Month, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit allocation transaction: %w", err)
	}
	return nil
}

func (r *monthlyBillRepository) SetPaid(ctx context.Context, id int64, field string, paid bool, paidDate *time.Time) error {
	dateField, ok := models.PaidDateColumns[field]
	if !ok {
		return fmt.Errorf("unrecognized paid field %q", field)
	}

	// field and dateField come from the fixed column map, never from input.
	query := fmt.Sprintf(
		`UPDATE monthly_bills SET %s = $1, %s = $2 WHERE id = $3`, field, dateField)

	tag, err := r.db.Pool.Exec(ctx, query, paid, paidDate, id)
	if err != nil {
		return fmt.Errorf("failed to update %s on monthly bill %d: %w", field, id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *monthlyBillRepository) ListUnpaid(ctx context.Context, year, month int) ([]models.MonthlyBill, error) {
	query := `SELECT` + billColumns + `
		FROM monthly_bills mb
		JOIN tenants t ON mb.tenant_id = t.id
		WHERE mb.year = $1 AND mb.month = $2
		  AND (mb.rent_paid = FALSE OR mb.maintenance_paid = FALSE
		       OR mb.gas_paid = FALSE OR mb.electricity_paid = FALSE
		       OR mb.water_paid = FALSE)
		ORDER BY t.floor ASC`

	return r.collect(ctx, query, year, month)
}
