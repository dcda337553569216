package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/session"
)

// Service-level errors shared across the package.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation not permitted for this account")
)

// AdminDisplayName is the name attached to administrator sessions.
const AdminDisplayName = "landlord"

// LoginInput carries one login attempt. Admin logins use Password; tenant
// logins use CompanyName and TenantPassword.
type LoginInput struct {
	IsAdmin        bool
	Password       string
	CompanyName    string
	TenantPassword string
}

// LoginResult is a successful login: the opaque token plus the session it
// resolves to.
type LoginResult struct {
	Token   string
	Session session.Session
}

// AuthService defines login and logout against the session store.
type AuthService interface {
	// Login verifies credentials and creates a session.
	// Returns ErrInvalidCredentials when they do not match.
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)

	// Logout removes the session for a token. Unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error
}

type authService struct {
	tenants       repository.TenantRepository
	sessions      session.Store
	adminPassword string
	log           *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(tenants repository.TenantRepository, sessions session.Store, adminPassword string, log *logger.Logger) AuthService {
	return &authService{
		tenants:       tenants,
		sessions:      sessions,
		adminPassword: adminPassword,
		log:           log,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.IsAdmin {
		if input.Password != s.adminPassword {
			s.log.Warn("Admin login rejected", nil)
			return nil, ErrInvalidCredentials
		}
		return s.createSession(ctx, session.Session{
			Role: session.RoleAdmin,
			Name: AdminDisplayName,
		})
	}

	companyName := strings.TrimSpace(input.CompanyName)
	if companyName == "" || input.TenantPassword == "" {
		return nil, ErrInvalidCredentials
	}

	tenant, err := s.tenants.FindByLogin(ctx, companyName, input.TenantPassword)
	if err != nil {
		s.log.Error("Tenant login lookup failed", err, map[string]interface{}{
			"company_name": companyName,
		})
		return nil, fmt.Errorf("failed to verify tenant login: %w", err)
	}
	if tenant == nil {
		s.log.Warn("Tenant login rejected", map[string]interface{}{
			"company_name": companyName,
		})
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, session.Session{
		Role:     session.RoleTenant,
		TenantID: tenant.ID,
		Name:     tenant.CompanyName,
		Floor:    tenant.Floor,
	})
}

func (s *authService) createSession(ctx context.Context, sess session.Session) (*LoginResult, error) {
	token, err := s.sessions.Create(ctx, sess)
	if err != nil {
		s.log.Error("Failed to create session", err, map[string]interface{}{
			"role": sess.Role,
		})
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("Login succeeded", map[string]interface{}{
		"role":  sess.Role,
		"name":  sess.Name,
		"floor": sess.Floor,
	})
	return &LoginResult{Token: token, Session: sess}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
