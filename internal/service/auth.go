package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
	"github.com/hireloop/intake-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Sessions ports.SessionStore
	Tokens   ports.TokenVerifier
}

// AuthService resolves request credentials to sessions. It consumes sessions
// minted by the identity service and verifies bearer tokens; it never mints
// credentials itself.
type AuthService struct {
	sessions ports.SessionStore
	tokens   ports.TokenVerifier
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		sessions: opts.Sessions,
		tokens:   opts.Tokens,
	}
}

// GetSession retrieves a session by ID, expiring it eagerly when stale.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// VerifyToken validates a bearer token and returns an ephemeral session for it.
// Token-backed sessions are not persisted; the credential itself is the state.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domainauth.Session, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}
	if s.tokens == nil {
		return nil, errors.New("no token verifier configured")
	}

	identity, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return &domainauth.Session{
		ID:        "", // token-backed, nothing stored
		UserID:    identity.UserID,
		Email:     identity.Email,
		Role:      identity.Role,
		ExpiresAt: identity.ExpiresAt,
	}, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
