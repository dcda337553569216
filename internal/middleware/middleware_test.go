package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/session"
)

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	return router
}

func TestRequestID_GeneratesID(t *testing.T) {
	router := newTestRouter(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		assert.NotEmpty(t, GetRequestID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestID_HonorsUpstreamHeader(t *testing.T) {
	router := newTestRouter(RequestID())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	router.ServeHTTP(w, req)

	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestLogger_StoresRequestLogger(t *testing.T) {
	log := logger.New("test")
	router := newTestRouter(RequestID(), Logger(log))
	router.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, GetLogger(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	log := logger.New("test")
	router := newTestRouter(RequestID(), Logger(log), Recovery(log))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestRequireAuth_MissingToken(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	defer store.Close()

	router := newTestRouter(RequestID(), RequireAuth(store))
	router.GET("/secure", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	defer store.Close()

	token, err := store.Create(context.Background(), session.Session{
		Role:     session.RoleTenant,
		TenantID: 5,
		Name:     "Acme Corp",
		Floor:    2,
	})
	require.NoError(t, err)

	router := newTestRouter(RequestID(), RequireAuth(store))
	router.GET("/secure", func(c *gin.Context) {
		principal := GetPrincipal(c)
		require.NotNil(t, principal)
		assert.Equal(t, int64(5), principal.TenantID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_RejectsTenant(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	defer store.Close()

	token, err := store.Create(context.Background(), session.Session{
		Role:     session.RoleTenant,
		TenantID: 5,
		Name:     "Acme Corp",
	})
	require.NoError(t, err)

	router := newTestRouter(RequestID(), RequireAuth(store), RequireAdmin())
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	defer store.Close()

	token, err := store.Create(context.Background(), session.Session{
		Role: session.RoleAdmin,
		Name: "admin",
	})
	require.NoError(t, err)

	router := newTestRouter(RequestID(), RequireAuth(store), RequireAdmin())
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
