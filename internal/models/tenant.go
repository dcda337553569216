package models

import "time"

// PaymentType controls which period a tenant's recurring rent/maintenance
// bill targets when their billing day fires.
type PaymentType string

const (
	// PaymentPrepaid bills the current month on the billing day.
	PaymentPrepaid PaymentType = "prepaid"
	// PaymentPostpaid bills the previous month on the billing day.
	PaymentPostpaid PaymentType = "postpaid"
)

// Valid reports whether the payment type is one of the known values.
func (p PaymentType) Valid() bool {
	return p == PaymentPrepaid || p == PaymentPostpaid
}

// Billing day must fall on a day every month has.
const (
	MinBillingDay = 1
	MaxBillingDay = 28
)

// Tenant is a leasing business occupying one floor of the building.
// Floor is unique across all tenants, active or not.
type Tenant struct {
	ID             int64        `json:"id"`
	Floor          int          `json:"floor"`
	CompanyName    string       `json:"company_name"`
	BusinessNumber *string      `json:"business_number,omitempty"`
	Representative *string      `json:"representative,omitempty"`
	BusinessType   *string      `json:"business_type,omitempty"`
	BusinessItem   *string      `json:"business_item,omitempty"`
	Address        *string      `json:"address,omitempty"`
	ContactPhone   *string      `json:"contact_phone,omitempty"`
	Email          *string      `json:"email,omitempty"`
	Password       string       `json:"-"`
	RentAmount     int64        `json:"rent_amount"`
	MaintenanceFee int64        `json:"maintenance_fee"`
	DepositAmount  int64        `json:"deposit_amount"`
	LeaseStart     *time.Time   `json:"lease_start,omitempty"`
	LeaseEnd       *time.Time   `json:"lease_end,omitempty"`
	BillingDay     int          `json:"billing_day"`
	PaymentType    PaymentType  `json:"payment_type"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
}
