package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/session"
)

// MockTenantRepository is a mock implementation of repository.TenantRepository
// for testing
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) List(ctx context.Context) ([]models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListActive(ctx context.Context) ([]models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListActiveByBillingDay(ctx context.Context, day int) ([]models.Tenant, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByFloor(ctx context.Context, floor int) (*models.Tenant, error) {
	args := m.Called(ctx, floor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByLogin(ctx context.Context, companyName, password string) (*models.Tenant, error) {
	args := m.Called(ctx, companyName, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Create(ctx context.Context, t *models.Tenant) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, id int64, patch repository.TenantPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdatePassword(ctx context.Context, id int64, password string) error {
	args := m.Called(ctx, id, password)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMeterReadingRepository is a mock implementation of
// repository.MeterReadingRepository for testing
type MockMeterReadingRepository struct {
	mock.Mock
}

func (m *MockMeterReadingRepository) Upsert(ctx context.Context, u repository.ReadingUpsert, uploadedAt time.Time) (int64, error) {
	args := m.Called(ctx, u, uploadedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMeterReadingRepository) List(ctx context.Context, f repository.ReadingFilter) ([]models.MeterReading, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeterReading), args.Error(1)
}

func (m *MockMeterReadingRepository) UpdateValue(ctx context.Context, id int64, value *float64) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *MockMeterReadingRepository) GetPhoto(ctx context.Context, id int64) (*repository.ReadingPhoto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReadingPhoto), args.Error(1)
}

func (m *MockMeterReadingRepository) UsageByTenant(ctx context.Context, year, month int, utility models.UtilityType) (map[int64]float64, error) {
	args := m.Called(ctx, year, month, utility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]float64), args.Error(1)
}

func (m *MockMeterReadingRepository) PhotoCountByTenant(ctx context.Context, year, month int) (map[int64]int, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

// MockBuildingBillRepository is a mock implementation of
// repository.BuildingBillRepository for testing
type MockBuildingBillRepository struct {
	mock.Mock
}

func (m *MockBuildingBillRepository) Upsert(ctx context.Context, b *models.BuildingBill) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuildingBillRepository) GetByPeriod(ctx context.Context, year, month int) (*models.BuildingBill, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BuildingBill), args.Error(1)
}

func (m *MockBuildingBillRepository) List(ctx context.Context, period *models.Period) ([]models.BuildingBill, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BuildingBill), args.Error(1)
}

// MockMonthlyBillRepository is a mock implementation of
// repository.MonthlyBillRepository for testing
type MockMonthlyBillRepository struct {
	mock.Mock
}

func (m *MockMonthlyBillRepository) List(ctx context.Context, f repository.BillFilter) ([]models.MonthlyBill, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlyBill), args.Error(1)
}

func (m *MockMonthlyBillRepository) GetByID(ctx context.Context, id int64) (*models.MonthlyBill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlyBill), args.Error(1)
}

func (m *MockMonthlyBillRepository) InsertIfAbsent(ctx context.Context, row repository.BillRow) (bool, error) {
	args := m.Called(ctx, row)
	return args.Bool(0), args.Error(1)
}

func (m *MockMonthlyBillRepository) UpsertUtilityBatch(ctx context.Context, rows []repository.BillRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockMonthlyBillRepository) SetPaid(ctx context.Context, id int64, field string, paid bool, paidDate *time.Time) error {
	args := m.Called(ctx, id, field, paid, paidDate)
	return args.Error(0)
}

func (m *MockMonthlyBillRepository) ListUnpaid(ctx context.Context, year, month int) ([]models.MonthlyBill, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlyBill), args.Error(1)
}

// MockTaxInvoiceRepository is a mock implementation of
// repository.TaxInvoiceRepository for testing
type MockTaxInvoiceRepository struct {
	mock.Mock
}

func (m *MockTaxInvoiceRepository) ListByPeriod(ctx context.Context, year, month int, tenantID *int64) ([]models.TaxInvoice, error) {
	args := m.Called(ctx, year, month, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TaxInvoice), args.Error(1)
}

func (m *MockTaxInvoiceRepository) Get(ctx context.Context, tenantID int64, year, month int, item models.BillItem) (*models.TaxInvoice, error) {
	args := m.Called(ctx, tenantID, year, month, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaxInvoice), args.Error(1)
}

func (m *MockTaxInvoiceRepository) Create(ctx context.Context, inv *models.TaxInvoice) (int64, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxInvoiceRepository) SetIssued(ctx context.Context, id int64, issued bool, issuedDate *time.Time) error {
	args := m.Called(ctx, id, issued, issuedDate)
	return args.Error(0)
}

func adminPrincipal() *session.Session {
	return &session.Session{Role: session.RoleAdmin, Name: AdminDisplayName}
}

func tenantPrincipal(tenantID int64) *session.Session {
	return &session.Session{Role: session.RoleTenant, TenantID: tenantID, Name: "Tenant", Floor: int(tenantID)}
}

// MockSessionStore is a mock implementation of session.Store for testing
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, sess session.Session) (string, error) {
	args := m.Called(ctx, sess)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
