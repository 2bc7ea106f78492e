// Package credentials declares the repository contract for bearer
// credentials. Access and refresh tokens live in separate tables with the
// same shape, so one repository covers both, selected by models.CredentialKind.
package credentials

import (
	"context"
	"time"

	"github.com/sonder-app/sonder-backend/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// bearer credentials.
type Repository interface {
	// Create stores a new credential for userID with an expiry of
	// now+validity and returns the stored row.
	Create(ctx context.Context, kind models.CredentialKind, userID string, token string, validity time.Duration) (*models.Credential, error)

	// Find looks up a credential by its opaque secret. Returns
	// common.ErrCredentialNotFound when the secret is unknown.
	Find(ctx context.Context, kind models.CredentialKind, token string) (*models.Credential, error)

	// RevokeAllForUser marks every non-revoked credential of the given kind
	// owned by userID as revoked, as a single conditional update. It is
	// idempotent: re-running after a partial failure revokes nothing new.
	RevokeAllForUser(ctx context.Context, kind models.CredentialKind, userID string) error

	// Revoke marks a single active credential as revoked by its secret.
	// Returns common.ErrCredentialRevoked when the credential was already
	// revoked, so callers racing to consume the same secret can detect the
	// loss.
	Revoke(ctx context.Context, kind models.CredentialKind, token string) error
}
