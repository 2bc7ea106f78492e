package services

import (
	"context"
	"database/sql"

	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/server/authz"
	"github.com/sonder-app/sonder-backend/internal/server/models"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/repomanager"
	"github.com/sonder-app/sonder-backend/internal/server/validation"
)

// CircleService manages circles. Reads and writes against an existing circle
// are gated on the caller's membership before any circle data is loaded, so a
// non-member cannot distinguish "circle exists" from "circle does not exist".
type CircleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCircleService constructs a CircleService.
func NewCircleService(db *sql.DB, m repomanager.RepositoryManager) *CircleService {
	return &CircleService{db: db, repomanager: m}
}

// Create starts a new circle. Any authenticated user may create one; joining
// it is a separate step via an invitation code.
func (s *CircleService) Create(ctx context.Context, name, description string, pictureURL *string) (*models.Circle, error) {
	if pictureURL != nil {
		if err := validation.Validate(validation.FieldPictureURL, *pictureURL); err != nil {
			return nil, err
		}
	}
	circle := &models.Circle{
		Name:        validation.Sanitize(name),
		Description: validation.Sanitize(description),
		PictureURL:  pictureURL,
	}
	return s.repomanager.Circles(s.db).Create(ctx, circle)
}

// Get returns circle details, members only.
func (s *CircleService) Get(ctx context.Context, user *models.User, circleID string) (*models.Circle, error) {
	if !authz.IsMemberOf(user, circleID) {
		return nil, common.ErrNotCircleMember
	}
	return s.repomanager.Circles(s.db).GetByID(ctx, circleID)
}

// Members lists everyone in the circle, members only.
func (s *CircleService) Members(ctx context.Context, user *models.User, circleID string) ([]*models.User, error) {
	if !authz.IsMemberOf(user, circleID) {
		return nil, common.ErrNotCircleMember
	}
	return s.repomanager.Users(s.db).ListByCircle(ctx, circleID)
}

// Update edits the circle's name, description, and picture, members only.
func (s *CircleService) Update(ctx context.Context, user *models.User, circleID, name, description string, pictureURL *string) (*models.Circle, error) {
	if !authz.IsMemberOf(user, circleID) {
		return nil, common.ErrNotCircleMember
	}
	if pictureURL != nil {
		if err := validation.Validate(validation.FieldPictureURL, *pictureURL); err != nil {
			return nil, err
		}
	}

	repo := s.repomanager.Circles(s.db)
	circle, err := repo.GetByID(ctx, circleID)
	if err != nil {
		return nil, err
	}

	circle.Name = validation.Sanitize(name)
	circle.Description = validation.Sanitize(description)
	if pictureURL != nil {
		circle.PictureURL = pictureURL
	}

	if err := repo.Update(ctx, circle); err != nil {
		return nil, err
	}
	return circle, nil
}
