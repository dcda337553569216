package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/session"
)

// ErrInvalidItemType is returned when a toggle names an unknown bill item.
var ErrInvalidItemType = errors.New("unrecognized bill item type")

// TaxService defines the tax-invoice issuance tracker.
type TaxService interface {
	// ListItems expands the period's monthly bills into one tax item per
	// strictly positive line amount, with VAT recomputed from the bill and
	// issuance state joined from stored records. Tenant principals see only
	// their own items.
	ListItems(ctx context.Context, principal *session.Session, year, month int) ([]models.TaxItem, error)

	// ToggleIssued flips the issuance flag for one bill line item, creating
	// the stored record in issued state on first use. Returns the new flag.
	ToggleIssued(ctx context.Context, tenantID int64, year, month int, item models.BillItem) (bool, error)
}

type taxService struct {
	bills    repository.MonthlyBillRepository
	invoices repository.TaxInvoiceRepository
	loc      *time.Location
	log      *logger.Logger
}

// NewTaxService creates a new TaxService.
func NewTaxService(
	bills repository.MonthlyBillRepository,
	invoices repository.TaxInvoiceRepository,
	loc *time.Location,
	log *logger.Logger,
) TaxService {
	return &taxService{bills: bills, invoices: invoices, loc: loc, log: log}
}

func (s *taxService) ListItems(ctx context.Context, principal *session.Session, year, month int) ([]models.TaxItem, error) {
	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	filter := repository.BillFilter{Period: &period}
	var scope *int64
	if principal != nil && !principal.IsAdmin() {
		tenantID := principal.TenantID
		filter.TenantID = &tenantID
		scope = &tenantID
	}

	bills, err := s.bills.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills for %s: %w", period, err)
	}

	records, err := s.invoices.ListByPeriod(ctx, year, month, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax invoices for %s: %w", period, err)
	}
	issued := make(map[string]models.TaxInvoice, len(records))
	for _, rec := range records {
		issued[taxKey(rec.TenantID, rec.ItemType)] = rec
	}

	items := []models.TaxItem{}
	for _, bill := range bills {
		for _, item := range models.BillItems {
			amount := bill.Amount(item)
			if amount <= 0 {
				continue
			}
			tax := models.VAT(amount)
			ti := models.TaxItem{
				BillID:       bill.ID,
				TenantID:     bill.TenantID,
				Floor:        bill.Floor,
				CompanyName:  bill.CompanyName,
				Year:         year,
				Month:        month,
				ItemType:     item,
				SupplyAmount: amount,
				TaxAmount:    tax,
				TotalAmount:  amount + tax,
			}
			if rec, ok := issued[taxKey(bill.TenantID, item)]; ok {
				ti.IsIssued = rec.IsIssued
				ti.IssuedDate = rec.IssuedDate
			}
			items = append(items, ti)
		}
	}
	return items, nil
}

func (s *taxService) ToggleIssued(ctx context.Context, tenantID int64, year, month int, item models.BillItem) (bool, error) {
	if !item.Valid() {
		return false, ErrInvalidItemType
	}
	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		return false, ErrInvalidPeriod
	}

	existing, err := s.invoices.Get(ctx, tenantID, year, month, item)
	if err != nil {
		return false, fmt.Errorf("failed to load tax invoice: %w", err)
	}

	today := civilDate(time.Now(), s.loc)

	if existing == nil {
		// First toggle creates the record already issued, snapshotting the
		// amounts from the current bill.
		bills, err := s.bills.List(ctx, repository.BillFilter{Period: &period, TenantID: &tenantID})
		if err != nil {
			return false, fmt.Errorf("failed to load bill for tax invoice: %w", err)
		}
		if len(bills) == 0 {
			return false, ErrBillNotFound
		}
		amount := bills[0].Amount(item)
		tax := models.VAT(amount)

		if _, err := s.invoices.Create(ctx, &models.TaxInvoice{
			TenantID:     tenantID,
			Year:         year,
			Month:        month,
			ItemType:     item,
			SupplyAmount: amount,
			TaxAmount:    tax,
			TotalAmount:  amount + tax,
			IsIssued:     true,
			IssuedDate:   &today,
		}); err != nil {
			return false, fmt.Errorf("failed to create tax invoice: %w", err)
		}

		s.log.Info("Tax invoice issued", map[string]interface{}{
			"tenant_id": tenantID,
			"period":    period.String(),
			"item":      string(item),
		})
		return true, nil
	}

	newValue := !existing.IsIssued
	var issuedDate *time.Time
	if newValue {
		issuedDate = &today
	}
	if err := s.invoices.SetIssued(ctx, existing.ID, newValue, issuedDate); err != nil {
		return false, fmt.Errorf("failed to toggle tax invoice %d: %w", existing.ID, err)
	}

	s.log.Info("Tax invoice toggled", map[string]interface{}{
		"tenant_id": tenantID,
		"period":    period.String(),
		"item":      string(item),
		"issued":    newValue,
	})
	return newValue, nil
}

func taxKey(tenantID int64, item models.BillItem) string {
	return fmt.Sprintf("%d:%s", tenantID, item)
}
