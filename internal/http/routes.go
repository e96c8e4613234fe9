package httpx

import (
	"log/slog"
	"net/http"

	"github.com/hireloop/intake-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	ParsingJobs     *service.ParsingJobService
	SearchSummaries *service.SearchSummaryService
	Auth            *service.AuthService
	CookieDomain    string
	Logger          *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router.
// Method-qualified patterns make the mux answer 405 for wrong-method requests
// on known paths.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	parsingHandlers := &ParsingJobHandlers{Svc: services.ParsingJobs}
	searchHandlers := &SearchSummaryHandlers{Svc: services.SearchSummaries}

	registerParsingRoutes(mux, parsingHandlers)
	registerSearchRoutes(mux, searchHandlers, services.Auth)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Auth != nil {
		authHandlers := &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}
		registerAuthRoutes(mux, authHandlers)
	}

	return mux
}

func registerParsingRoutes(mux *http.ServeMux, h *ParsingJobHandlers) {
	mux.HandleFunc("POST /api/resumes/parse", h.Submit)
	mux.HandleFunc("GET /api/resumes/parse/status", h.Status)
	mux.HandleFunc("GET /api/resumes/parse/stats", h.Stats)
}

func registerSearchRoutes(mux *http.ServeMux, h *SearchSummaryHandlers, auth *service.AuthService) {
	// Nil-safe middleware factory for wiring without an auth backend in tests.
	authed := func(hh http.Handler) http.Handler {
		if auth != nil {
			return RequireAuth(auth)(hh)
		}
		return hh
	}

	mux.Handle("POST /api/candidates/search-summary", authed(http.HandlerFunc(h.Summarize)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/logout", h.Logout)
}
