package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleRecruiter Role = "recruiter"
	RoleService   Role = "service"
)

// Identity represents the authenticated principal asserted by a credential.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub claim or token label)
	Email     string
	Role      Role
	ExpiresAt time.Time // absolute expiry from the credential, zero when unbounded
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier issued by the identity service.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session expiry has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
