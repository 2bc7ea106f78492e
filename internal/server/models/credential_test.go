package models

import (
	"testing"
	"time"
)

func TestCredential_ValidAt_Boundary(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := &Credential{ExpiresAt: now}

	if c.ValidAt(now) {
		t.Fatalf("credential expiring exactly now must be invalid")
	}
	if !c.ValidAt(now.Add(-time.Microsecond)) {
		t.Fatalf("credential must be valid one microsecond before expiry")
	}
	if c.ValidAt(now.Add(time.Microsecond)) {
		t.Fatalf("credential must be invalid after expiry")
	}
}

func TestCredential_ValidAt_Revoked(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := &Credential{ExpiresAt: now.Add(time.Hour), Revoked: true}
	if c.ValidAt(now) {
		t.Fatalf("revoked credential must be invalid regardless of expiry")
	}
}

func TestInvitation_ValidAt(t *testing.T) {
	t.Parallel()

	now := time.Now()

	fresh := &CircleInvitation{ExpiresAt: now.Add(24 * time.Hour)}
	if !fresh.ValidAt(now) {
		t.Fatalf("unexpired unrevoked invitation must be valid")
	}

	expired := &CircleInvitation{ExpiresAt: now.Add(-time.Minute)}
	if expired.ValidAt(now) {
		t.Fatalf("expired invitation must be invalid even when not revoked")
	}

	revoked := &CircleInvitation{ExpiresAt: now.Add(time.Hour), Revoked: true}
	if revoked.ValidAt(now) {
		t.Fatalf("revoked invitation must be invalid")
	}
}
