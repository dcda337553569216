// Package session provides the opaque-token session store used by the auth
// middleware. Two implementations exist: a redis-backed store for deployments
// and an in-process store with a TTL sweep for single-node setups and tests.
package session

import (
	"context"
	"time"
)

// Roles a session principal can hold.
const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// Session is the authenticated principal attached to a request. TenantID and
// Floor are zero for admin sessions.
type Session struct {
	Role      string    `json:"role"`
	TenantID  int64     `json:"tenant_id,omitempty"`
	Name      string    `json:"name"`
	Floor     int       `json:"floor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the session belongs to the building administrator.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Store is a keyed session cache with explicit expiry. Get returns nil, nil
// for tokens that are unknown or expired; errors are reserved for backend
// failures.
type Store interface {
	// Create stores the session under a fresh opaque token and returns it.
	Create(ctx context.Context, s Session) (string, error)

	// Get looks up the session for a token.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
