package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
	mockauth "github.com/hireloop/intake-api/internal/mocks/auth"
)

func TestAuthService_GetSession(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{Sessions: store})

	want := domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Email:     "recruiter@example.com",
		Role:      domainauth.RoleRecruiter,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), want))

	got, err := svc.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Role, got.Role)
}

func TestAuthService_GetSession_Missing(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{Sessions: mockauth.NewMemorySessionStore()})

	_, err := svc.GetSession(context.Background(), "unknown")
	require.Error(t, err)

	_, err = svc.GetSession(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_GetSession_ExpiredIsDeleted(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{Sessions: store})

	expired := domainauth.Session{
		ID:        "sess-old",
		UserID:    "user-1",
		Role:      domainauth.RoleRecruiter,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.Save(context.Background(), expired))

	_, err := svc.GetSession(context.Background(), "sess-old")
	require.Error(t, err)

	// The stale session must be gone after the failed lookup.
	_, err = store.Get(context.Background(), "sess-old")
	assert.ErrorIs(t, err, mockauth.ErrNotFound)
}

func TestAuthService_VerifyToken(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{
		Sessions: mockauth.NewMemorySessionStore(),
		Tokens:   mockauth.NewStaticTokenVerifier("good-token"),
	})

	sess, err := svc.VerifyToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Empty(t, sess.ID, "token-backed sessions are not persisted")
	assert.Equal(t, "svc-good-token", sess.UserID)
	assert.Equal(t, domainauth.RoleService, sess.Role)

	_, err = svc.VerifyToken(context.Background(), "bad-token")
	require.Error(t, err)

	_, err = svc.VerifyToken(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_VerifyToken_NoVerifier(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{Sessions: mockauth.NewMemorySessionStore()})

	_, err := svc.VerifyToken(context.Background(), "anything")
	require.Error(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{Sessions: store})

	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, svc.Logout(context.Background(), "sess-1"))
	_, err := store.Get(context.Background(), "sess-1")
	assert.ErrorIs(t, err, mockauth.ErrNotFound)

	// Logging out an empty session ID is a no-op.
	require.NoError(t, svc.Logout(context.Background(), ""))
}
