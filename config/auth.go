package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOIDC verifies bearer tokens against the identity provider.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeStatic uses a fixed token set (for development and testing only).
	AuthModeStatic AuthMode = "static"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oidc", "static":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oidc, static)", v)
	}
}

// OIDCConfig contains OIDC token verification configuration.
// The identity service owns the login flow; this API only verifies tokens.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"intake-api"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// StaticAuthConfig controls static-token authentication.
// Used when AUTH_MODE=static for development and testing.
// Tokens are "token:user-id" entries.
type StaticAuthConfig struct {
	Tokens []string `env:"TOKENS" envDefault:"" envSeparator:","`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which token verifier to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oidc"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// Static configuration (used when Mode=static).
	Static StaticAuthConfig `envPrefix:"STATIC_AUTH_"`

	// SessionTTLSeconds caps how long a session minted by the identity
	// service is honored past its stored expiry check interval.
	SessionTTLSeconds int `env:"SESSION_TTL_SECONDS" envDefault:"28800"`
}
