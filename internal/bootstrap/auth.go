package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hireloop/intake-api/config"
	"github.com/hireloop/intake-api/internal/adapters/devauth"
	"github.com/hireloop/intake-api/internal/adapters/oidc"
	redisadapter "github.com/hireloop/intake-api/internal/adapters/redis"
	"github.com/hireloop/intake-api/internal/ports"
	"github.com/hireloop/intake-api/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid; routes
// behind RequireAuth then reject every request.
func BuildAuthService(ctx context.Context, cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Redis session store shared by both modes; sessions themselves are
	// minted by the identity service.
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	verifier := buildTokenVerifier(ctx, cfg)
	if verifier == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Sessions: sessionStore,
		Tokens:   verifier,
	})
}

//nolint:ireturn // the port type is the point; callers must not care which verifier backs it.
func buildTokenVerifier(ctx context.Context, cfg AuthConfig) ports.TokenVerifier {
	switch cfg.Auth.Mode {
	case config.AuthModeStatic:
		if len(cfg.Auth.Static.Tokens) == 0 {
			if cfg.Logger != nil {
				cfg.Logger.Warn("AuthModeStatic selected but no tokens configured; auth disabled")
			}
			return nil
		}
		return devauth.NewVerifier(cfg.Auth.Static.Tokens)

	case config.AuthModeOIDC:
		oidcCfg := cfg.Auth.OIDC
		if oidcCfg.DiscoveryURL == "" || oidcCfg.ClientID == "" {
			if cfg.Logger != nil {
				cfg.Logger.Warn("AuthModeOIDC selected but required config missing; auth disabled",
					"discovery_url_empty", oidcCfg.DiscoveryURL == "",
					"client_id_empty", oidcCfg.ClientID == "",
				)
			}
			return nil
		}

		verifier, err := oidc.NewVerifier(ctx, oidc.VerifierConfig{
			ClientID:     oidcCfg.ClientID,
			DiscoveryURL: oidcCfg.DiscoveryURL,
		})
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("failed to create OIDC verifier, auth disabled", "error", err)
			}
			return nil
		}
		return verifier

	default:
		return nil
	}
}
