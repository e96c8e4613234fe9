package devauth

// Package devauth provides a static-token verifier for development and testing.
// Tokens are configured as "token:user-id" pairs; every verified token maps to
// a service identity. Never enable this in production.

import (
	"context"
	"errors"
	"strings"

	domainauth "github.com/hireloop/intake-api/internal/domain/auth"
)

// Verifier implements the TokenVerifier port against a fixed token set.
type Verifier struct {
	tokens map[string]string // token -> user id
}

// NewVerifier builds a static verifier from "token:user-id" entries.
// Entries without a user id map the token to itself.
func NewVerifier(entries []string) *Verifier {
	tokens := make(map[string]string, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, userID, found := strings.Cut(entry, ":")
		if !found || strings.TrimSpace(userID) == "" {
			userID = token
		}
		tokens[strings.TrimSpace(token)] = strings.TrimSpace(userID)
	}
	return &Verifier{tokens: tokens}
}

// Verify resolves the token against the configured set.
func (v *Verifier) Verify(_ context.Context, token string) (domainauth.Identity, error) {
	userID, ok := v.tokens[strings.TrimSpace(token)]
	if !ok {
		return domainauth.Identity{}, errors.New("unknown token")
	}
	return domainauth.Identity{
		UserID: userID,
		Role:   domainauth.RoleService,
	}, nil
}
