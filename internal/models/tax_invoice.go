package models

import (
	"math"
	"time"
)

// VATRate is the value-added tax rate applied per line item.
const VATRate = 0.1

// VAT returns the tax for a VAT-exclusive amount, rounded to the nearest
// currency unit.
func VAT(amount int64) int64 {
	return int64(math.Round(float64(amount) * VATRate))
}

// TaxInvoice is the stored issuance record for one bill line item. It exists
// only once the item has been issued at least once; the supply/tax/total
// snapshot is kept for audit but the read path recomputes amounts from the
// underlying monthly bill.
type TaxInvoice struct {
	ID           int64      `json:"id"`
	TenantID     int64      `json:"tenant_id"`
	Year         int        `json:"year"`
	Month        int        `json:"month"`
	ItemType     BillItem   `json:"item_type"`
	SupplyAmount int64      `json:"supply_amount"`
	TaxAmount    int64      `json:"tax_amount"`
	TotalAmount  int64      `json:"total_amount"`
	IsIssued     bool       `json:"is_issued"`
	IssuedDate   *time.Time `json:"issued_date,omitempty"`
	Memo         *string    `json:"memo,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TaxItem is the derived tax-invoice view of one positive bill line item,
// with amounts computed from the bill and issuance state joined from the
// stored record when one exists.
type TaxItem struct {
	BillID       int64      `json:"bill_id"`
	TenantID     int64      `json:"tenant_id"`
	Floor        int        `json:"floor"`
	CompanyName  string     `json:"company_name"`
	Year         int        `json:"year"`
	Month        int        `json:"month"`
	ItemType     BillItem   `json:"item_type"`
	SupplyAmount int64      `json:"supply_amount"`
	TaxAmount    int64      `json:"tax_amount"`
	TotalAmount  int64      `json:"total_amount"`
	IsIssued     bool       `json:"is_issued"`
	IssuedDate   *time.Time `json:"issued_date,omitempty"`
}
