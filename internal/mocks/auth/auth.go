package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
	"github.com/hireloop/intake-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.TokenVerifier = (*StaticTokenVerifier)(nil)
)

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StaticTokenVerifier maps known tokens to identities for tests.
type StaticTokenVerifier struct {
	Identities map[string]domainauth.Identity
}

// NewStaticTokenVerifier creates a verifier that accepts the given tokens.
func NewStaticTokenVerifier(tokens ...string) *StaticTokenVerifier {
	identities := make(map[string]domainauth.Identity, len(tokens))
	for _, token := range tokens {
		identities[token] = domainauth.Identity{
			UserID:    "svc-" + token,
			Role:      domainauth.RoleService,
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}
	return &StaticTokenVerifier{Identities: identities}
}

func (v *StaticTokenVerifier) Verify(_ context.Context, token string) (domainauth.Identity, error) {
	identity, ok := v.Identities[token]
	if !ok {
		return domainauth.Identity{}, errors.New("unknown token")
	}
	return identity, nil
}
