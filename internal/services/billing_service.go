package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tandangji/rental/internal/billing"
	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/session"
)

// Service-level errors for bill generation and payment tracking.
var (
	ErrInvalidPeriod   = errors.New("year and month are required and must be valid")
	ErrNoActiveTenants = errors.New("no active tenants to bill")
	ErrBillNotFound    = errors.New("monthly bill not found")
	ErrInvalidPayField = errors.New("unrecognized payment field")
)

// BillingService defines monthly-bill generation and the payment ledger.
type BillingService interface {
	// ListBills returns the bills visible to the principal, optionally
	// narrowed to one period.
	ListBills(ctx context.Context, principal *session.Session, period *models.Period) ([]models.MonthlyBill, error)

	// GenerateBills allocates the period's building utility totals across
	// all active tenants and upserts their monthly bills atomically.
	// Existing bills keep rent/maintenance and paid state; only the three
	// utility amounts are rewritten. Returns the number of tenants billed.
	GenerateBills(ctx context.Context, year, month int) (int, error)

	// RunDailyCharges inserts rent/maintenance bills for every active
	// tenant whose billing day matches now's day-of-month in the billing
	// zone. Prepaid tenants are billed for the current period, postpaid for
	// the previous one. Existing rows are left untouched, which makes the
	// call idempotent within a day. Returns the number of rows created.
	RunDailyCharges(ctx context.Context, now time.Time) (int, error)

	// TogglePayment flips one of the five paid flags on a bill, stamping
	// the paid date on false to true and clearing it on true to false.
	// Returns the new flag value.
	TogglePayment(ctx context.Context, billID int64, field string) (bool, error)
}

type billingService struct {
	tenants  repository.TenantRepository
	readings repository.MeterReadingRepository
	totals   repository.BuildingBillRepository
	bills    repository.MonthlyBillRepository
	loc      *time.Location
	log      *logger.Logger
}

// NewBillingService creates a new BillingService. loc is the fixed civil
// billing zone.
func NewBillingService(
	tenants repository.TenantRepository,
	readings repository.MeterReadingRepository,
	totals repository.BuildingBillRepository,
	bills repository.MonthlyBillRepository,
	loc *time.Location,
	log *logger.Logger,
) BillingService {
	return &billingService{
		tenants:  tenants,
		readings: readings,
		totals:   totals,
		bills:    bills,
		loc:      loc,
		log:      log,
	}
}

func (s *billingService) ListBills(ctx context.Context, principal *session.Session, period *models.Period) ([]models.MonthlyBill, error) {
	filter := repository.BillFilter{Period: period}
	if principal != nil && !principal.IsAdmin() {
		tenantID := principal.TenantID
		filter.TenantID = &tenantID
	}

	bills, err := s.bills.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly bills: %w", err)
	}
	return bills, nil
}

func (s *billingService) GenerateBills(ctx context.Context, year, month int) (int, error) {
	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		return 0, ErrInvalidPeriod
	}

	tenants, err := s.tenants.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active tenants: %w", err)
	}
	if len(tenants) == 0 {
		return 0, ErrNoActiveTenants
	}

	totals, err := s.totals.GetByPeriod(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("failed to load building totals for %s: %w", period, err)
	}
	if totals == nil {
		// No totals entered yet: every utility allocates to zero shares.
		totals = &models.BuildingBill{Year: year, Month: month}
	}

	// One share slice per utility, aligned with the floor-ascending tenant
	// list. The alignment is what makes the remainder rule deterministic.
	shares := make(map[models.UtilityType][]int64, len(models.UtilityTypes))
	for _, utility := range models.UtilityTypes {
		usages, err := s.readings.UsageByTenant(ctx, year, month, utility)
		if err != nil {
			return 0, fmt.Errorf("failed to load %s readings for %s: %w", utility, period, err)
		}

		input := make([]billing.TenantUsage, len(tenants))
		for i, t := range tenants {
			tu := billing.TenantUsage{TenantID: t.ID}
			if usage, ok := usages[t.ID]; ok {
				v := usage
				tu.Usage = &v
			}
			input[i] = tu
		}

		shares[utility] = billing.Allocate(totals.Total(utility), input)
	}

	rows := make([]repository.BillRow, len(tenants))
	for i, t := range tenants {
		rows[i] = repository.BillRow{
			TenantID:          t.ID,
			Year:              year,
			Month:             month,
			RentAmount:        t.RentAmount,
			MaintenanceFee:    t.MaintenanceFee,
			GasAmount:         shares[models.UtilityGas][i],
			ElectricityAmount: shares[models.UtilityElectricity][i],
			WaterAmount:       shares[models.UtilityWater][i],
		}
	}

	if err := s.bills.UpsertUtilityBatch(ctx, rows); err != nil {
		s.log.Error("Allocation run failed", err, map[string]interface{}{
			"period": period.String(),
		})
		return 0, fmt.Errorf("failed to write monthly bills for %s: %w", period, err)
	}

	s.log.Info("Allocation run completed", map[string]interface{}{
		"period":            period.String(),
		"tenants":           len(rows),
		"gas_total":         totals.GasTotal,
		"electricity_total": totals.ElectricityTotal,
		"water_total":       totals.WaterTotal,
	})
	return len(rows), nil
}

func (s *billingService) RunDailyCharges(ctx context.Context, now time.Time) (int, error) {
	today := civilDate(now, s.loc)
	day := today.Day()

	tenants, err := s.tenants.ListActiveByBillingDay(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list tenants with billing day %d: %w", day, err)
	}

	current := models.Period{Year: today.Year(), Month: int(today.Month())}
	created := 0
	for _, t := range tenants {
		target := current
		if t.PaymentType == models.PaymentPostpaid {
			target = current.Prev()
		}

		inserted, err := s.bills.InsertIfAbsent(ctx, repository.BillRow{
			TenantID:       t.ID,
			Year:           target.Year,
			Month:          target.Month,
			RentAmount:     t.RentAmount,
			MaintenanceFee: t.MaintenanceFee,
		})
		if err != nil {
			// A failed tenant must not block the rest; the next daily run
			// picks it up again.
			s.log.Error("Failed to create recurring bill", err, map[string]interface{}{
				"tenant_id": t.ID,
				"period":    target.String(),
			})
			continue
		}
		if inserted {
			created++
			s.log.Info("Recurring bill created", map[string]interface{}{
				"tenant_id": t.ID,
				"floor":     t.Floor,
				"period":    target.String(),
			})
		}
	}

	return created, nil
}

func (s *billingService) TogglePayment(ctx context.Context, billID int64, field string) (bool, error) {
	if _, ok := models.PaidDateColumns[field]; !ok {
		return false, ErrInvalidPayField
	}

	bill, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		return false, fmt.Errorf("failed to load monthly bill %d: %w", billID, err)
	}
	if bill == nil {
		return false, ErrBillNotFound
	}

	newValue := !paidFlag(bill, field)
	var paidDate *time.Time
	if newValue {
		today := civilDate(time.Now(), s.loc)
		paidDate = &today
	}

	if err := s.bills.SetPaid(ctx, billID, field, newValue, paidDate); err != nil {
		if isNoRows(err) {
			return false, ErrBillNotFound
		}
		return false, fmt.Errorf("failed to toggle %s on bill %d: %w", field, billID, err)
	}

	s.log.Info("Payment flag toggled", map[string]interface{}{
		"bill_id": billID,
		"field":   field,
		"paid":    newValue,
	})
	return newValue, nil
}

func paidFlag(b *models.MonthlyBill, field string) bool {
	switch field {
	case "rent_paid":
		return b.RentPaid
	case "maintenance_paid":
		return b.MaintenancePaid
	case "gas_paid":
		return b.GasPaid
	case "electricity_paid":
		return b.ElectricityPaid
	case "water_paid":
		return b.WaterPaid
	}
	return false
}
