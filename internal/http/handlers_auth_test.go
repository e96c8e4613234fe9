package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
)

func TestAuthStatus_Anonymous(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestAuthStatus_Authenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{
		getSessionFunc: func(context.Context, string) (*domainauth.Session, error) {
			return &domainauth.Session{
				ID:        "sess-1",
				UserID:    "user-1",
				Email:     "recruiter@example.com",
				Role:      domainauth.RoleRecruiter,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), "recruiter@example.com")
}

func TestAuthLogout(t *testing.T) {
	var loggedOut string
	svc := &logoutRecorder{sessionID: &loggedOut}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signed_out")
	assert.Equal(t, "sess-1", loggedOut)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge, "cookie must be expired on the client")
}

func TestAuthLogout_NoCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	// Logout without a session is still a clean sign-out.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signed_out")
}

// logoutRecorder captures the session ID passed to Logout.
type logoutRecorder struct {
	sessionID *string
}

func (l *logoutRecorder) GetSession(context.Context, string) (*domainauth.Session, error) {
	return nil, errors.New("not implemented")
}

func (l *logoutRecorder) VerifyToken(context.Context, string) (*domainauth.Session, error) {
	return nil, errors.New("not implemented")
}

func (l *logoutRecorder) Logout(_ context.Context, sessionID string) error {
	*l.sessionID = sessionID
	return nil
}
