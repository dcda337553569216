package models

import "time"

// UtilityType is one of the building's shared metered utilities.
type UtilityType string

const (
	UtilityGas         UtilityType = "gas"
	UtilityElectricity UtilityType = "electricity"
	UtilityWater       UtilityType = "water"
)

// UtilityTypes lists every utility in a stable order.
var UtilityTypes = []UtilityType{UtilityGas, UtilityElectricity, UtilityWater}

// Valid reports whether the utility type is one of the known values.
func (u UtilityType) Valid() bool {
	switch u {
	case UtilityGas, UtilityElectricity, UtilityWater:
		return true
	}
	return false
}

// MeterReading is one tenant's recorded consumption for one utility in one
// period, optionally backed by a photo of the meter. ReadingValue is the
// period's usage itself, not a cumulative meter index. The photo blob is not
// carried on list payloads; it is fetched separately by id.
type MeterReading struct {
	ID            int64       `json:"id"`
	TenantID      int64       `json:"tenant_id"`
	Year          int         `json:"year"`
	Month         int         `json:"month"`
	UtilityType   UtilityType `json:"utility_type"`
	ReadingValue  *float64    `json:"reading_value"`
	PhotoFilename *string     `json:"photo_filename,omitempty"`
	HasPhoto      bool        `json:"has_photo"`
	UploadedAt    *time.Time  `json:"uploaded_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`

	// Joined from tenants for list views.
	Floor       int    `json:"floor"`
	CompanyName string `json:"company_name"`
}

// BuildingBill holds the landlord's building-wide utility invoices for one
// period. One row per (year, month).
type BuildingBill struct {
	ID               int64     `json:"id"`
	Year             int       `json:"year"`
	Month            int       `json:"month"`
	GasTotal         int64     `json:"gas_total"`
	ElectricityTotal int64     `json:"electricity_total"`
	WaterTotal       int64     `json:"water_total"`
	CreatedAt        time.Time `json:"created_at"`
}

// Total returns the building-wide total for one utility.
func (b *BuildingBill) Total(u UtilityType) int64 {
	switch u {
	case UtilityGas:
		return b.GasTotal
	case UtilityElectricity:
		return b.ElectricityTotal
	case UtilityWater:
		return b.WaterTotal
	}
	return 0
}
