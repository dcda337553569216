package services

import (
	"context"
	"fmt"

	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
)

// MeterTarget is one tenant still missing meter photos for a period.
type MeterTarget struct {
	TenantID       int64   `json:"tenant_id"`
	Floor          int     `json:"floor"`
	CompanyName    string  `json:"company_name"`
	ContactPhone   *string `json:"contact_phone,omitempty"`
	PhotosUploaded int     `json:"photos_uploaded"`
	PhotosExpected int     `json:"photos_expected"`
}

// PaymentTarget is one tenant with unpaid bill items for a period.
type PaymentTarget struct {
	TenantID     int64    `json:"tenant_id"`
	Floor        int      `json:"floor"`
	CompanyName  string   `json:"company_name"`
	ContactPhone *string  `json:"contact_phone,omitempty"`
	UnpaidItems  []string `json:"unpaid_items"`
	UnpaidTotal  int64    `json:"unpaid_total"`
}

// ReminderService computes who needs chasing for a period. It only reports
// targets; sending the actual messages happens outside this system.
type ReminderService interface {
	// MeterTargets returns active tenants that have uploaded photos for
	// fewer than all three utilities in the period.
	MeterTargets(ctx context.Context, year, month int) ([]MeterTarget, error)

	// PaymentTargets returns tenants whose period bill still has unpaid
	// items, with the outstanding items and total.
	PaymentTargets(ctx context.Context, year, month int) ([]PaymentTarget, error)
}

type reminderService struct {
	tenants  repository.TenantRepository
	readings repository.MeterReadingRepository
	bills    repository.MonthlyBillRepository
	log      *logger.Logger
}

// NewReminderService creates a new ReminderService.
func NewReminderService(
	tenants repository.TenantRepository,
	readings repository.MeterReadingRepository,
	bills repository.MonthlyBillRepository,
	log *logger.Logger,
) ReminderService {
	return &reminderService{tenants: tenants, readings: readings, bills: bills, log: log}
}

func (s *reminderService) MeterTargets(ctx context.Context, year, month int) ([]MeterTarget, error) {
	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	tenants, err := s.tenants.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}
	counts, err := s.readings.PhotoCountByTenant(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to count reading photos for %s: %w", period, err)
	}

	expected := len(models.UtilityTypes)
	targets := []MeterTarget{}
	for _, t := range tenants {
		uploaded := counts[t.ID]
		if uploaded >= expected {
			continue
		}
		targets = append(targets, MeterTarget{
			TenantID:       t.ID,
			Floor:          t.Floor,
			CompanyName:    t.CompanyName,
			ContactPhone:   t.ContactPhone,
			PhotosUploaded: uploaded,
			PhotosExpected: expected,
		})
	}
	return targets, nil
}

func (s *reminderService) PaymentTargets(ctx context.Context, year, month int) ([]PaymentTarget, error) {
	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	unpaid, err := s.bills.ListUnpaid(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid bills for %s: %w", period, err)
	}
	if len(unpaid) == 0 {
		return []PaymentTarget{}, nil
	}

	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	phones := make(map[int64]*string, len(tenants))
	for _, t := range tenants {
		phones[t.ID] = t.ContactPhone
	}

	targets := make([]PaymentTarget, 0, len(unpaid))
	for _, bill := range unpaid {
		target := PaymentTarget{
			TenantID:     bill.TenantID,
			Floor:        bill.Floor,
			CompanyName:  bill.CompanyName,
			ContactPhone: phones[bill.TenantID],
			UnpaidItems:  []string{},
		}
		for _, item := range models.BillItems {
			if bill.Paid(item) {
				continue
			}
			amount := bill.Amount(item)
			if amount <= 0 {
				continue
			}
			target.UnpaidItems = append(target.UnpaidItems, string(item))
			target.UnpaidTotal += amount
		}
		if len(target.UnpaidItems) == 0 {
			continue
		}
		targets = append(targets, target)
	}
	return targets, nil
}
