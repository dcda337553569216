package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/session"
)

// Service-level errors for tenant management.
var (
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrFloorTaken        = errors.New("floor already has a registered tenant")
	ErrInvalidBillingDay = errors.New("billing day must be between 1 and 28")
	ErrInvalidPayType    = errors.New("payment type must be prepaid or postpaid")
	ErrPasswordRequired  = errors.New("password must not be empty")
)

// TenantService defines tenant registry business logic.
type TenantService interface {
	// List returns the tenants visible to the principal: all of them for
	// the admin, only the tenant's own record otherwise.
	List(ctx context.Context, principal *session.Session) ([]models.Tenant, error)

	// Create registers a tenant. Returns ErrFloorTaken when the floor is
	// occupied (active or not). An empty password defaults to the floor
	// number zero-padded to four digits.
	Create(ctx context.Context, t models.Tenant) (int64, error)

	// Update applies a partial update, guarding floor uniqueness.
	Update(ctx context.Context, id int64, patch repository.TenantPatch) error

	// Delete hard-deletes a tenant together with all dependent records.
	Delete(ctx context.Context, id int64) error

	// ChangePassword lets a tenant replace their own password.
	ChangePassword(ctx context.Context, principal *session.Session, newPassword string) error
}

type tenantService struct {
	repo repository.TenantRepository
	log  *logger.Logger
}

// NewTenantService creates a new TenantService.
func NewTenantService(repo repository.TenantRepository, log *logger.Logger) TenantService {
	return &tenantService{repo: repo, log: log}
}

func (s *tenantService) List(ctx context.Context, principal *session.Session) ([]models.Tenant, error) {
	if principal != nil && !principal.IsAdmin() {
		tenant, err := s.repo.GetByID(ctx, principal.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load tenant %d: %w", principal.TenantID, err)
		}
		if tenant == nil {
			return []models.Tenant{}, nil
		}
		return []models.Tenant{*tenant}, nil
	}

	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

func (s *tenantService) Create(ctx context.Context, t models.Tenant) (int64, error) {
	if t.BillingDay == 0 {
		t.BillingDay = models.MinBillingDay
	}
	if t.BillingDay < models.MinBillingDay || t.BillingDay > models.MaxBillingDay {
		return 0, ErrInvalidBillingDay
	}
	if t.PaymentType == "" {
		t.PaymentType = models.PaymentPrepaid
	}
	if !t.PaymentType.Valid() {
		return 0, ErrInvalidPayType
	}
	if t.Password == "" {
		t.Password = fmt.Sprintf("%04d", t.Floor)
	}
	t.IsActive = true

	existing, err := s.repo.FindByFloor(ctx, t.Floor)
	if err != nil {
		return 0, fmt.Errorf("failed to check floor %d: %w", t.Floor, err)
	}
	if existing != nil {
		return 0, ErrFloorTaken
	}

	id, err := s.repo.Create(ctx, &t)
	if err != nil {
		s.log.Error("Failed to create tenant", err, map[string]interface{}{
			"floor":        t.Floor,
			"company_name": t.CompanyName,
		})
		return 0, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.log.Info("Tenant created", map[string]interface{}{
		"tenant_id":    id,
		"floor":        t.Floor,
		"company_name": t.CompanyName,
	})
	return id, nil
}

func (s *tenantService) Update(ctx context.Context, id int64, patch repository.TenantPatch) error {
	if patch.BillingDay != nil && (*patch.BillingDay < models.MinBillingDay || *patch.BillingDay > models.MaxBillingDay) {
		return ErrInvalidBillingDay
	}
	if patch.PaymentType != nil && !patch.PaymentType.Valid() {
		return ErrInvalidPayType
	}

	if patch.Floor != nil {
		occupant, err := s.repo.FindByFloor(ctx, *patch.Floor)
		if err != nil {
			return fmt.Errorf("failed to check floor %d: %w", *patch.Floor, err)
		}
		if occupant != nil && occupant.ID != id {
			return ErrFloorTaken
		}
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if isNoRows(err) {
			return ErrTenantNotFound
		}
		s.log.Error("Failed to update tenant", err, map[string]interface{}{"tenant_id": id})
		return fmt.Errorf("failed to update tenant %d: %w", id, err)
	}

	s.log.Info("Tenant updated", map[string]interface{}{"tenant_id": id})
	return nil
}

func (s *tenantService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return ErrTenantNotFound
		}
		s.log.Error("Failed to delete tenant", err, map[string]interface{}{"tenant_id": id})
		return fmt.Errorf("failed to delete tenant %d: %w", id, err)
	}

	s.log.Info("Tenant deleted", map[string]interface{}{"tenant_id": id})
	return nil
}

func (s *tenantService) ChangePassword(ctx context.Context, principal *session.Session, newPassword string) error {
	if principal == nil || principal.IsAdmin() {
		return ErrForbidden
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}

	if err := s.repo.UpdatePassword(ctx, principal.TenantID, newPassword); err != nil {
		if isNoRows(err) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("failed to change password for tenant %d: %w", principal.TenantID, err)
	}

	s.log.Info("Tenant password changed", map[string]interface{}{"tenant_id": principal.TenantID})
	return nil
}
