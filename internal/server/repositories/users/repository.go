// Package users declares the repository contract for user records.
package users

import (
	"context"

	"github.com/sonder-app/sonder-backend/internal/server/models"
)

// Repository defines persistence operations for users. Email lookups expect
// the caller to pass an already case-normalized address.
type Repository interface {
	// Create inserts a new user and returns it with its generated id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update persists profile fields and circle membership for an existing user.
	Update(ctx context.Context, user *models.User) error

	// ListByCircle returns all members of the given circle.
	ListByCircle(ctx context.Context, circleID string) ([]*models.User, error)
}
