package models

import "time"

// BillItem names one of the five charge line items on a monthly bill.
type BillItem string

const (
	ItemRent        BillItem = "rent"
	ItemMaintenance BillItem = "maintenance"
	ItemGas         BillItem = "gas"
	ItemElectricity BillItem = "electricity"
	ItemWater       BillItem = "water"
)

// BillItems lists every line item in bill display order.
var BillItems = []BillItem{ItemRent, ItemMaintenance, ItemGas, ItemElectricity, ItemWater}

// Valid reports whether the item is one of the five known line items.
func (i BillItem) Valid() bool {
	switch i {
	case ItemRent, ItemMaintenance, ItemGas, ItemElectricity, ItemWater:
		return true
	}
	return false
}

// PaidDateColumns maps each recognized paid-flag column to its date column.
// Any field name outside this map is rejected before it reaches SQL.
var PaidDateColumns = map[string]string{
	"rent_paid":        "rent_paid_date",
	"maintenance_paid": "maintenance_paid_date",
	"gas_paid":         "gas_paid_date",
	"electricity_paid": "electricity_paid_date",
	"water_paid":       "water_paid_date",
}

// MonthlyBill is one tenant's bill for one period. Rent and maintenance are
// frozen from the tenant's contract terms at creation; the three utility
// amounts are rewritten by allocation runs. All amounts are VAT-exclusive
// integer currency units.
type MonthlyBill struct {
	ID                  int64      `json:"id"`
	TenantID            int64      `json:"tenant_id"`
	Year                int        `json:"year"`
	Month               int        `json:"month"`
	RentAmount          int64      `json:"rent_amount"`
	MaintenanceFee      int64      `json:"maintenance_fee"`
	GasAmount           int64      `json:"gas_amount"`
	ElectricityAmount   int64      `json:"electricity_amount"`
	WaterAmount         int64      `json:"water_amount"`
	RentPaid            bool       `json:"rent_paid"`
	MaintenancePaid     bool       `json:"maintenance_paid"`
	GasPaid             bool       `json:"gas_paid"`
	ElectricityPaid     bool       `json:"electricity_paid"`
	WaterPaid           bool       `json:"water_paid"`
	RentPaidDate        *time.Time `json:"rent_paid_date,omitempty"`
	MaintenancePaidDate *time.Time `json:"maintenance_paid_date,omitempty"`
	GasPaidDate         *time.Time `json:"gas_paid_date,omitempty"`
	ElectricityPaidDate *time.Time `json:"electricity_paid_date,omitempty"`
	WaterPaidDate       *time.Time `json:"water_paid_date,omitempty"`
	Memo                *string    `json:"memo,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`

	// Joined from tenants for list views.
	Floor       int    `json:"floor"`
	CompanyName string `json:"company_name"`
}

// Amount returns the bill's amount for one line item.
func (b *MonthlyBill) Amount(item BillItem) int64 {
	switch item {
	case ItemRent:
		return b.RentAmount
	case ItemMaintenance:
		return b.MaintenanceFee
	case ItemGas:
		return b.GasAmount
	case ItemElectricity:
		return b.ElectricityAmount
	case ItemWater:
		return b.WaterAmount
	}
	return 0
}

// Paid returns the paid flag for one line item.
func (b *MonthlyBill) Paid(item BillItem) bool {
	switch item {
	case ItemRent:
		return b.RentPaid
	case ItemMaintenance:
		return b.MaintenancePaid
	case ItemGas:
		return b.GasPaid
	case ItemElectricity:
		return b.ElectricityPaid
	case ItemWater:
		return b.WaterPaid
	}
	return false
}
