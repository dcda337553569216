package database

import (
	"context"
	"fmt"
)

// schemaStatements creates the persistent tables in dependency order. The
// uniqueness constraints double as the concurrency guards for the billing
// upserts, so they are part of the behavior, not just the layout.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id BIGSERIAL PRIMARY KEY,
		floor INTEGER UNIQUE NOT NULL,
		company_name TEXT NOT NULL,
		business_number TEXT,
		representative TEXT,
		business_type TEXT,
		business_item TEXT,
		address TEXT,
		contact_phone TEXT,
		email TEXT,
		password TEXT NOT NULL,
		rent_amount BIGINT NOT NULL DEFAULT 0,
		maintenance_fee BIGINT NOT NULL DEFAULT 0,
		deposit_amount BIGINT NOT NULL DEFAULT 0,
		lease_start DATE,
		lease_end DATE,
		billing_day INTEGER NOT NULL DEFAULT 1 CHECK (billing_day BETWEEN 1 AND 28),
		payment_type TEXT NOT NULL DEFAULT 'prepaid' CHECK (payment_type IN ('prepaid', 'postpaid')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS monthly_bills (
		id BIGSERIAL PRIMARY KEY,
		tenant_id BIGINT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		rent_amount BIGINT NOT NULL DEFAULT 0,
		maintenance_fee BIGINT NOT NULL DEFAULT 0,
		gas_amount BIGINT NOT NULL DEFAULT 0,
		electricity_amount BIGINT NOT NULL DEFAULT 0,
		water_amount BIGINT NOT NULL DEFAULT 0,
		rent_paid BOOLEAN NOT NULL DEFAULT FALSE,
		maintenance_paid BOOLEAN NOT NULL DEFAULT FALSE,
		gas_paid BOOLEAN NOT NULL DEFAULT FALSE,
		electricity_paid BOOLEAN NOT NULL DEFAULT FALSE,
		water_paid BOOLEAN NOT NULL DEFAULT FALSE,
		rent_paid_date DATE,
		maintenance_paid_date DATE,
		gas_paid_date DATE,
		electricity_paid_date DATE,
		water_paid_date DATE,
		memo TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, year, month)
	)`,

	`CREATE TABLE IF NOT EXISTS meter_readings (
		id BIGSERIAL PRIMARY KEY,
		tenant_id BIGINT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		utility_type TEXT NOT NULL CHECK (utility_type IN ('gas', 'electricity', 'water')),
		reading_value NUMERIC(12,2),
		photo BYTEA,
		photo_filename TEXT,
		uploaded_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, year, month, utility_type)
	)`,

	`CREATE TABLE IF NOT EXISTS building_bills (
		id BIGSERIAL PRIMARY KEY,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		gas_total BIGINT NOT NULL DEFAULT 0,
		electricity_total BIGINT NOT NULL DEFAULT 0,
		water_total BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (year, month)
	)`,

	`CREATE TABLE IF NOT EXISTS tax_invoices (
		id BIGSERIAL PRIMARY KEY,
		tenant_id BIGINT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		item_type TEXT NOT NULL CHECK (item_type IN ('rent', 'maintenance', 'gas', 'electricity', 'water')),
		supply_amount BIGINT NOT NULL DEFAULT 0,
		tax_amount BIGINT NOT NULL DEFAULT 0,
		total_amount BIGINT NOT NULL DEFAULT 0,
		is_issued BOOLEAN NOT NULL DEFAULT FALSE,
		issued_date DATE,
		memo TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (tenant_id, year, month, item_type)
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// defaultSettings are seeded once; existing values are never overwritten.
var defaultSettings = map[string]string{
	"building_name":            "",
	"landlord_name":            "",
	"landlord_business_number": "",
	"landlord_phone":           "",
	"bank_name":                "",
	"bank_account":             "",
	"bank_holder":              "",
	"sms_api_key":              "",
	"sms_sender_number":        "",
}

// Migrate creates any missing tables and seeds the default settings rows.
// It is safe to run on every startup.
func (db *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	for key, value := range defaultSettings {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("failed to seed setting %q: %w", key, err)
		}
	}

	return nil
}
