package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	VerifyToken(ctx context.Context, token string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
// Sessions are minted by the identity service; this API only reads,
// reports, and revokes them.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromRequest(r, h.Svc)
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    session.UserID,
			"email": session.Email,
			"role":  session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// Logout revokes the server-side session and clears the cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// clearSessionCookie expires the session cookie on the client, mirroring the
// attributes the identity service uses when setting it.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
