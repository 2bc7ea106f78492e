// Package circles declares the repository contract for circle records.
package circles

import (
	"context"

	"github.com/sonder-app/sonder-backend/internal/server/models"
)

// Repository defines persistence operations for circles.
type Repository interface {
	// Create inserts a new circle and returns it with its generated id.
	Create(ctx context.Context, circle *models.Circle) (*models.Circle, error)

	// GetByID returns the circle with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Circle, error)

	// Update persists name, description, and picture for an existing circle.
	Update(ctx context.Context, circle *models.Circle) error
}
