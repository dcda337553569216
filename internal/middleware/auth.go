package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tandangji/rental/internal/session"
)

const principalKey = "principal"

func authError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}

// RequireAuth validates the Bearer token against the session store and
// attaches the resolved principal to the request context.
func RequireAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			authError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		sess, err := store.Get(c.Request.Context(), token)
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Error("Session lookup failed", err, nil)
			}
			authError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Failed to verify session")
			return
		}
		if sess == nil {
			authError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Session expired or invalid")
			return
		}

		c.Set(principalKey, sess)
		c.Next()
	}
}

// RequireAdmin rejects requests whose principal is not the building
// administrator. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil || !principal.IsAdmin() {
			authError(c, http.StatusForbidden, "FORBIDDEN", "Administrator privileges required")
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated session from the Gin context.
// Returns nil if the request is unauthenticated.
func GetPrincipal(c *gin.Context) *session.Session {
	if value, exists := c.Get(principalKey); exists {
		if sess, ok := value.(*session.Session); ok {
			return sess
		}
	}
	return nil
}
