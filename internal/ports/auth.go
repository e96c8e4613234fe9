package ports

// Package ports defines interfaces (hexagonal ports) for auth and generation behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
)

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenVerifier validates a bearer token and returns the identity it asserts.
// Implementations: OIDC ID-token verification, static token list for dev/test.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domainauth.Identity, error)
}
