// Package invitations declares the repository contract for circle
// invitation codes.
package invitations

import (
	"context"
	"time"

	"github.com/sonder-app/sonder-backend/internal/server/models"
)

// Repository defines operations for issuing, resolving, and revoking circle
// invitations.
type Repository interface {
	// Create stores a new invitation for circleID with an expiry of
	// now+validity and returns the stored row.
	Create(ctx context.Context, circleID string, code string, validity time.Duration) (*models.CircleInvitation, error)

	// FindByCode looks up an invitation by its code. Returns
	// common.ErrInvitationNotFound when the code is unknown.
	FindByCode(ctx context.Context, code string) (*models.CircleInvitation, error)

	// RevokeAllForCircle marks every non-revoked invitation of the circle as
	// revoked, as a single conditional update. Idempotent on retry.
	RevokeAllForCircle(ctx context.Context, circleID string) error
}
