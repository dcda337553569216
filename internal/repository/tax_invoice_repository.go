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

// TaxInvoiceRepository defines the data access operations for stored
// tax-invoice issuance records.
type TaxInvoiceRepository interface {
	// ListByPeriod returns the period's records, optionally scoped to one
	// tenant.
	ListByPeriod(ctx context.Context, year, month int, tenantID *int64) ([]models.TaxInvoice, error)

	// Get returns the record for one bill line item, or nil, nil when no
	// issuance has happened yet.
	Get(ctx context.Context, tenantID int64, year, month int, item models.BillItem) (*models.TaxInvoice, error)

	// Create inserts a record and returns its id.
	Create(ctx context.Context, inv *models.TaxInvoice) (int64, error)

	// SetIssued updates a record's issuance flag and date.
	SetIssued(ctx context.Context, id int64, issued bool, issuedDate *time.Time) error
}

type taxInvoiceRepository struct {
	db *database.Database
}

// NewTaxInvoiceRepository creates a new TaxInvoiceRepository backed by
// PostgreSQL.
func NewTaxInvoiceRepository(db *database.Database) TaxInvoiceRepository {
	return &taxInvoiceRepository{db: db}
}

const taxInvoiceColumns = `
	id, tenant_id, year, month, item_type, supply_amount, tax_amount,
	total_amount, is_issued, issued_date, memo, created_at`

func scanTaxInvoice(row pgx.Row) (*models.TaxInvoice, error) {
	var inv models.TaxInvoice
	err := row.Scan(
		&inv.ID,
		&inv.TenantID,
		&inv.Year,
		&inv.Month,
		&inv.ItemType,
		&inv.SupplyAmount,
		&inv.TaxAmount,
		&inv.TotalAmount,
		&inv.IsIssued,
		&inv.IssuedDate,
		&inv.Memo,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *taxInvoiceRepository) ListByPeriod(ctx context.Context, year, month int, tenantID *int64) ([]models.TaxInvoice, error) {
	query := `SELECT` + taxInvoiceColumns + ` FROM tax_invoices WHERE year = $1 AND month = $2`
	args := []interface{}{year, month}
	if tenantID != nil {
		args = append(args, *tenantID)
		query += fmt.Sprintf(" AND tenant_id = $%d", len(args))
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax invoices %d-%d: %w", year, month, err)
	}
	defer rows.Close()

	var invoices []models.TaxInvoice
	for rows.Next() {
		inv, err := scanTaxInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax invoice row: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax invoice rows: %w", err)
	}

	if invoices == nil {
		invoices = []models.TaxInvoice{}
	}
	return invoices, nil
}

func (r *taxInvoiceRepository) Get(ctx context.Context, tenantID int64, year, month int, item models.BillItem) (*models.TaxInvoice, error) {
	query := `SELECT` + taxInvoiceColumns + `
		FROM tax_invoices
		WHERE tenant_id = $1 AND year = $2 AND month = $3 AND item_type = $4`

	inv, err := scanTaxInvoice(r.db.Pool.QueryRow(ctx, query, tenantID, year, month, item))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query tax invoice: %w", err)
	}
	return inv, nil
}

func (r *taxInvoiceRepository) Create(ctx context.Context, inv *models.TaxInvoice) (int64, error) {
	query := `
		INSERT INTO tax_invoices
			(tenant_id, year, month, item_type, supply_amount, tax_amount, total_amount, is_issued, issued_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		inv.TenantID,
		inv.Year,
		inv.Month,
		inv.ItemType,
		inv.SupplyAmount,
		inv.TaxAmount,
		inv.TotalAmount,
		inv.IsIssued,
		inv.IssuedDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tax invoice: %w", err)
	}
	return id, nil
}

func (r *taxInvoiceRepository) SetIssued(ctx context.Context, id int64, issued bool, issuedDate *time.Time) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tax_invoices SET is_issued = $1, issued_date = $2 WHERE id = $3`,
		issued, issuedDate, id)
	if err != nil {
		return fmt.Errorf("failed to update tax invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
