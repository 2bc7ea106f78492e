package models

import "time"

// CredentialKind distinguishes the two bearer credential tables.
type CredentialKind string

const (
	KindAccess  CredentialKind = "access"
	KindRefresh CredentialKind = "refresh"
)

// Credential is a bearer secret bound to a user. Access and refresh tokens
// share this shape; they differ only in lifetime and secret size.
type Credential struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
}

// ValidAt reports whether the credential establishes a session at the given
// instant: not revoked and strictly before expiry. A credential whose
// ExpiresAt equals now is already expired.
func (c *Credential) ValidAt(now time.Time) bool {
	return !c.Revoked && c.ExpiresAt.After(now)
}

// Valid is ValidAt(time.Now()).
func (c *Credential) Valid() bool {
	return c.ValidAt(time.Now())
}
