package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
)

// ErrNegativeTotal is returned when a building total is below zero.
var ErrNegativeTotal = errors.New("utility totals must not be negative")

// BuildingBillService manages the building-wide utility totals the admin
// enters each month. The totals feed the allocation run.
type BuildingBillService interface {
	// Save writes the totals for one period, overwriting any prior entry.
	Save(ctx context.Context, b *models.BuildingBill) (int64, error)

	// List returns entries newest-first, optionally for one period.
	List(ctx context.Context, period *models.Period) ([]models.BuildingBill, error)
}

type buildingBillService struct {
	totals repository.BuildingBillRepository
	log    *logger.Logger
}

// NewBuildingBillService creates a new BuildingBillService.
func NewBuildingBillService(totals repository.BuildingBillRepository, log *logger.Logger) BuildingBillService {
	return &buildingBillService{totals: totals, log: log}
}

func (s *buildingBillService) Save(ctx context.Context, b *models.BuildingBill) (int64, error) {
	period := models.Period{Year: b.Year, Month: b.Month}
	if !period.Valid() {
		return 0, ErrInvalidPeriod
	}
	if b.GasTotal < 0 || b.ElectricityTotal < 0 || b.WaterTotal < 0 {
		return 0, ErrNegativeTotal
	}

	id, err := s.totals.Upsert(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("failed to save building totals for %s: %w", period, err)
	}

	s.log.Info("Building totals saved", map[string]interface{}{
		"period":            period.String(),
		"gas_total":         b.GasTotal,
		"electricity_total": b.ElectricityTotal,
		"water_total":       b.WaterTotal,
	})
	return id, nil
}

func (s *buildingBillService) List(ctx context.Context, period *models.Period) ([]models.BuildingBill, error) {
	bills, err := s.totals.List(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list building totals: %w", err)
	}
	return bills, nil
}
