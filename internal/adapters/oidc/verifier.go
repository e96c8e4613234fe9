package oidc

// Package oidc verifies bearer ID tokens issued by the identity service.
// The login flow itself lives with the identity service; this adapter only
// validates tokens presented on API requests.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
)

// Verifier implements the TokenVerifier port using go-oidc discovery and JWKS.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// VerifierConfig holds configuration for the OIDC token verifier.
type VerifierConfig struct {
	ClientID     string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewVerifier performs OIDC discovery and builds a token verifier.
func NewVerifier(ctx context.Context, config VerifierConfig) (*Verifier, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")

	provider, err := gooidc.NewProvider(gooidc.ClientContext(ctx, httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

// tokenClaims is the claim shape we accept from the identity service.
type tokenClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
}

// Verify validates the raw bearer token and maps its claims to an Identity.
func (v *Verifier) Verify(ctx context.Context, token string) (domainauth.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domainauth.Identity{}, errors.New("token is required")
	}

	idTok, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify token: %w", err)
	}

	var claims tokenClaims
	if err := idTok.Claims(&claims); err != nil {
		return domainauth.Identity{}, fmt.Errorf("parse token claims: %w", err)
	}
	if claims.Sub == "" {
		return domainauth.Identity{}, errors.New("token missing sub claim")
	}

	return domainauth.Identity{
		UserID:    claims.Sub,
		Email:     claims.Email,
		Role:      domainauth.RoleRecruiter,
		ExpiresAt: idTok.Expiry,
	}, nil
}
