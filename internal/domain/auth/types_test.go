package auth

import (
	"testing"
	"time"
)

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s := Session{ExpiresAt: now.Add(-time.Minute)}
	if !s.Expired(now) {
		t.Fatalf("expected session to be expired")
	}

	s = Session{ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Fatalf("did not expect session to be expired")
	}
}

func TestSession_Expired_ZeroExpiry(t *testing.T) {
	// Zero expiry means the session is unbounded.
	s := Session{}
	if s.Expired(time.Now()) {
		t.Fatalf("zero expiry must never expire")
	}
}

func TestIdentity_SimpleFields(t *testing.T) {
	id := Identity{UserID: "u", Email: "e", Role: RoleRecruiter, ExpiresAt: time.Now().Add(time.Hour)}
	if id.UserID != "u" || id.Email != "e" || id.Role != RoleRecruiter {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
