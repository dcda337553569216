package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/tandangji/rental/internal/models"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/services"
	"github.com/tandangji/rental/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest runs one request through a fresh router with the given
// route registered.
func performRequest(method, path string, body interface{}, register func(r *gin.Engine)) *httptest.ResponseRecorder {
	router := gin.New()
	register(router)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// MockAuthService is a mock implementation of services.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input services.LoginInput) (*services.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockBillingService is a mock implementation of services.BillingService for
// testing
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) ListBills(ctx context.Context, principal *session.Session, period *models.Period) ([]models.MonthlyBill, error) {
	args := m.Called(ctx, principal, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlyBill), args.Error(1)
}

func (m *MockBillingService) GenerateBills(ctx context.Context, year, month int) (int, error) {
	args := m.Called(ctx, year, month)
	return args.Int(0), args.Error(1)
}

func (m *MockBillingService) RunDailyCharges(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockBillingService) TogglePayment(ctx context.Context, billID int64, field string) (bool, error) {
	args := m.Called(ctx, billID, field)
	return args.Bool(0), args.Error(1)
}

// MockTenantService is a mock implementation of services.TenantService for
// testing
type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) List(ctx context.Context, principal *session.Session) ([]models.Tenant, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockTenantService) Create(ctx context.Context, t models.Tenant) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, id int64, patch repository.TenantPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockTenantService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantService) ChangePassword(ctx context.Context, principal *session.Session, newPassword string) error {
	args := m.Called(ctx, principal, newPassword)
	return args.Error(0)
}

// MockTaxService is a mock implementation of services.TaxService for testing
type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) ListItems(ctx context.Context, principal *session.Session, year, month int) ([]models.TaxItem, error) {
	args := m.Called(ctx, principal, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TaxItem), args.Error(1)
}

func (m *MockTaxService) ToggleIssued(ctx context.Context, tenantID int64, year, month int, item models.BillItem) (bool, error) {
	args := m.Called(ctx, tenantID, year, month, item)
	return args.Bool(0), args.Error(1)
}
