package models

import "time"

// CircleInvitation is a circle-scoped admission secret. A circle has at most
// one non-revoked invitation at a time; joining does not revoke the code, so
// several members may be admitted off one invitation before it is superseded.
type CircleInvitation struct {
	ID             string
	InvitationCode string
	CircleID       string
	ExpiresAt      time.Time
	Revoked        bool
}

// ValidAt reports whether the invitation can still admit members at the given
// instant. Expiry and revocation are both checked; an expired-but-unrevoked
// code does not resolve.
func (i *CircleInvitation) ValidAt(now time.Time) bool {
	return !i.Revoked && i.ExpiresAt.After(now)
}

// Valid is ValidAt(time.Now()).
func (i *CircleInvitation) Valid() bool {
	return i.ValidAt(time.Now())
}
