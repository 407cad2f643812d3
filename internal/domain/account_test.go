package domain

import (
	"testing"
	"time"
)

func TestPendingTokenValidAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	var missing *PendingToken
	if missing.ValidAt(now) {
		t.Fatalf("expected nil token to be invalid")
	}
	if !(&PendingToken{Value: "a", ExpiresAt: now.Add(time.Second)}).ValidAt(now) {
		t.Fatalf("expected future expiry to be valid")
	}
	if (&PendingToken{Value: "a", ExpiresAt: now}).ValidAt(now) {
		t.Fatalf("expected expiry equal to now to be expired")
	}
	if (&PendingToken{Value: "a", ExpiresAt: now.Add(-time.Second)}).ValidAt(now) {
		t.Fatalf("expected past expiry to be expired")
	}
}

func TestAccountProfileOmitsSecrets(t *testing.T) {
	hash := "hash"
	acc := Account{
		ID:           "a1",
		Email:        "user@example.com",
		Name:         "User",
		PasswordHash: &hash,
		Verification: &PendingToken{Value: "tok", ExpiresAt: time.Now()},
	}

	p := acc.Profile()
	if p.ID != "a1" || p.Email != "user@example.com" || p.Name != "User" {
		t.Fatalf("unexpected profile %+v", p)
	}
	if !p.HasPassword {
		t.Fatalf("expected has_password true")
	}

	empty := ""
	acc.PasswordHash = &empty
	if acc.HasPassword() {
		t.Fatalf("expected empty hash to count as no password")
	}
}
