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

// TenantPatch carries a partial tenant update. Nil fields keep the stored
// value; Password empty string means keep the current password.
type TenantPatch struct {
	Floor          *int
	CompanyName    *string
	BusinessNumber *string
	Representative *string
	BusinessType   *string
	BusinessItem   *string
	Address        *string
	ContactPhone   *string
	Email          *string
	Password       string
	RentAmount     *int64
	MaintenanceFee *int64
	DepositAmount  *int64
	LeaseStart     *time.Time
	LeaseEnd       *time.Time
	BillingDay     *int
	PaymentType    *models.PaymentType
	IsActive       *bool
}

// TenantRepository defines the data access operations for tenants.
type TenantRepository interface {
	// List returns all tenants ordered by floor ascending.
	List(ctx context.Context) ([]models.Tenant, error)

	// ListActive returns active tenants ordered by floor ascending. The
	// order is load-bearing: the allocation engine's remainder rule depends
	// on it.
	ListActive(ctx context.Context) ([]models.Tenant, error)

	// ListActiveByBillingDay returns active tenants whose billing day equals
	// the given day-of-month, ordered by floor ascending.
	ListActiveByBillingDay(ctx context.Context, day int) ([]models.Tenant, error)

	// GetByID returns one tenant, or nil, nil when absent.
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)

	// FindByFloor returns the tenant registered on a floor (active or not),
	// or nil, nil when the floor is free.
	FindByFloor(ctx context.Context, floor int) (*models.Tenant, error)

	// FindByLogin returns the active tenant matching the company name and
	// password, or nil, nil when credentials do not match.
	FindByLogin(ctx context.Context, companyName, password string) (*models.Tenant, error)

	// Create inserts a tenant and returns the new id.
	Create(ctx context.Context, t *models.Tenant) (int64, error)

	// Update applies a partial update.
	Update(ctx context.Context, id int64, patch TenantPatch) error

	// UpdatePassword replaces a tenant's password.
	UpdatePassword(ctx context.Context, id int64, password string) error

	// Delete removes a tenant; dependent readings, bills, and tax records
	// cascade.
	Delete(ctx context.Context, id int64) error
}

type tenantRepository struct {
	db *database.Database
}

// NewTenantRepository creates a new TenantRepository backed by PostgreSQL.
func NewTenantRepository(db *database.Database) TenantRepository {
	return &tenantRepository{db: db}
}

const tenantColumns = `
	id, floor, company_name, business_number, representative, business_type,
	business_item, address, contact_phone, email, password, rent_amount,
	maintenance_fee, deposit_amount, lease_start, lease_end, billing_day,
	payment_type, is_active, created_at`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(
		&t.ID,
		&t.Floor,
		&t.CompanyName,
		&t.BusinessNumber,
		&t.Representative,
		&t.BusinessType,
		&t.BusinessItem,
		&t.Address,
		&t.ContactPhone,
		&t.Email,
		&t.Password,
		&t.RentAmount,
		&t.MaintenanceFee,
		&t.DepositAmount,
		&t.LeaseStart,
		&t.LeaseEnd,
		&t.BillingDay,
		&t.PaymentType,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tenantRepository) list(ctx context.Context, where string, args ...interface{}) ([]models.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants ` + where + ` ORDER BY floor ASC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	if tenants == nil {
		tenants = []models.Tenant{}
	}
	return tenants, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]models.Tenant, error) {
	return r.list(ctx, "")
}

func (r *tenantRepository) ListActive(ctx context.Context) ([]models.Tenant, error) {
	return r.list(ctx, "WHERE is_active = TRUE")
}

func (r *tenantRepository) ListActiveByBillingDay(ctx context.Context, day int) ([]models.Tenant, error) {
	return r.list(ctx, "WHERE is_active = TRUE AND billing_day = $1", day)
}

func (r *tenantRepository) getOne(ctx context.Context, where string, args ...interface{}) (*models.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants ` + where

	t, err := scanTenant(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query tenant: %w", err)
	}
	return t, nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	return r.getOne(ctx, "WHERE id = $1", id)
}

func (r *tenantRepository) FindByFloor(ctx context.Context, floor int) (*models.Tenant, error) {
	return r.getOne(ctx, "WHERE floor = $1", floor)
}

func (r *tenantRepository) FindByLogin(ctx context.Context, companyName, password string) (*models.Tenant, error) {
	return r.getOne(ctx,
		"WHERE company_name = $1 AND password = $2 AND is_active = TRUE",
		companyName, password,
	)
}

func (r *tenantRepository) Create(ctx context.Context, t *models.Tenant) (int64, error) {
	query := `
		INSERT INTO tenants (
			floor, company_name, business_number, representative, business_type,
			business_item, address, contact_phone, email, password, rent_amount,
			maintenance_fee, deposit_amount, lease_start, lease_end, billing_day,
			payment_type, is_active
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		t.Floor,
		t.CompanyName,
		t.BusinessNumber,
		t.Representative,
		t.BusinessType,
		t.BusinessItem,
		t.Address,
		t.ContactPhone,
		t.Email,
		t.Password,
		t.RentAmount,
		t.MaintenanceFee,
		t.DepositAmount,
		t.LeaseStart,
		t.LeaseEnd,
		t.BillingDay,
		t.PaymentType,
		t.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tenant: %w", err)
	}
	return id, nil
}

func (r *tenantRepository) Update(ctx context.Context, id int64, p TenantPatch) error {
	query := `
		UPDATE tenants SET
			floor = COALESCE($1, floor),
			company_name = COALESCE($2, company_name),
			business_number = COALESCE($3, business_number),
			representative = COALESCE($4, representative),
			business_type = COALESCE($5, business_type),
			business_item = COALESCE($6, business_item),
			address = COALESCE($7, address),
			contact_phone = COALESCE($8, contact_phone),
			email = COALESCE($9, email),
			password = COALESCE(NULLIF($10, ''), password),
			rent_amount = COALESCE($11, rent_amount),
			maintenance_fee = COALESCE($12, maintenance_fee),
			deposit_amount = COALESCE($13, deposit_amount),
			lease_start = COALESCE($14, lease_start),
			lease_end = COALESCE($15, lease_end),
			billing_day = COALESCE($16, billing_day),
			payment_type = COALESCE($17, payment_type),
			is_active = COALESCE($18, is_active)
		WHERE id = $19`

	tag, err := r.db.Pool.Exec(ctx, query,
		p.Floor,
		p.CompanyName,
		p.BusinessNumber,
		p.Representative,
		p.BusinessType,
		p.BusinessItem,
		p.Address,
		p.ContactPhone,
		p.Email,
		p.Password,
		p.RentAmount,
		p.MaintenanceFee,
		p.DepositAmount,
		p.LeaseStart,
		p.LeaseEnd,
		p.BillingDay,
		p.PaymentType,
		p.IsActive,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantRepository) UpdatePassword(ctx context.Context, id int64, password string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tenants SET password = $1 WHERE id = $2`, password, id)
	if err != nil {
		return fmt.Errorf("failed to update tenant %d password: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
