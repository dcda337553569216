package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tandangji/rental/internal/httperr"
	"github.com/tandangji/rental/internal/middleware"
	"github.com/tandangji/rental/internal/services"
)

// AuthHandler handles login and logout requests.
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest is the body for POST /api/v1/auth/login. Admin logins send
// is_admin with password; tenant logins send company_name with password.
type LoginRequest struct {
	IsAdmin     bool   `json:"is_admin"`
	CompanyName string `json:"company_name"`
	Password    string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token and the resolved identity.
type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	TenantID int64  `json:"tenant_id,omitempty"`
	Floor    int    `json:"floor,omitempty"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid login request", nil)
		return
	}

	input := services.LoginInput{IsAdmin: req.IsAdmin}
	if req.IsAdmin {
		input.Password = req.Password
	} else {
		input.CompanyName = req.CompanyName
		input.TenantPassword = req.Password
	}

	result, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			httperr.Unauthorized(c, "Invalid credentials")
			return
		}
		httperr.InternalServerError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    result.Token,
		Role:     result.Session.Role,
		Name:     result.Session.Name,
		TenantID: result.Session.TenantID,
		Floor:    result.Session.Floor,
	})
}

// Logout handles POST /api/v1/auth/logout. Always succeeds, even for tokens
// that have already expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		httperr.InternalServerError(c, "Logout failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /api/v1/auth/me, returning the authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		httperr.Unauthorized(c, "Authentication required")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Role:     principal.Role,
		Name:     principal.Name,
		TenantID: principal.TenantID,
		Floor:    principal.Floor,
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
