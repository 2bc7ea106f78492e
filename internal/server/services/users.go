package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/logging"
	"github.com/sonder-app/sonder-backend/internal/server/authz"
	"github.com/sonder-app/sonder-backend/internal/server/identity"
	"github.com/sonder-app/sonder-backend/internal/server/models"
	"github.com/sonder-app/sonder-backend/internal/server/repositories/repomanager"
	"github.com/sonder-app/sonder-backend/internal/server/validation"
)

// LoginResult is what a successful provider login returns: the user record,
// a fresh credential pair, and the onboarding hints the client renders from.
type LoginResult struct {
	User            *models.User
	Pair            *TokenPair
	NeedsOnboarding bool
	InCircle        bool
}

// ProfileUpdate carries the editable profile fields. Username and picture
// are optional; a nil pointer leaves the stored value untouched.
type ProfileUpdate struct {
	Email      string
	FirstName  string
	LastName   string
	Username   *string
	PictureURL *string
}

// UserService handles provider login, logout, and profile management.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	provider    identity.Provider
	tokens      *TokenService
	logger      logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, provider identity.Provider, tokens *TokenService, logger logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, provider: provider, tokens: tokens, logger: logger}
}

// LoginWithProvider verifies the provider token against the identity
// provider, finds or creates the local user by verified email, and issues a
// fresh credential pair. A login from a new device revokes the pair held by
// the previous device; one active pair per user at all times.
func (s *UserService) LoginWithProvider(ctx context.Context, providerToken string) (*LoginResult, error) {
	info, err := s.provider.FetchUserInfo(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	// emails compare case-insensitively, stored lowercased
	email := strings.ToLower(validation.Sanitize(info.Email))

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	needsOnboarding := false

	if errors.Is(err, common.ErrNotFound) {
		user, err = repo.Create(ctx, &models.User{
			Email:      email,
			FirstName:  validation.Sanitize(info.GivenName),
			LastName:   validation.Sanitize(info.FamilyName),
			PictureURL: info.Picture,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
		needsOnboarding = true
		s.logger.Info(ctx, "registered new user", "user_id", user.ID)
	} else if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:            user,
		Pair:            pair,
		NeedsOnboarding: needsOnboarding,
		InCircle:        authz.IsInCircle(user),
	}, nil
}

// Logout revokes every credential the user holds, both kinds.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeAll(ctx, userID)
}

// Get returns the user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// UpdateProfile validates and persists profile edits for the given user and
// returns the updated record.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, upd ProfileUpdate) (*models.User, error) {
	if err := validation.ValidateProfile(upd.Email, upd.FirstName, upd.LastName, upd.Username, upd.PictureURL); err != nil {
		return nil, err
	}

	user.Email = strings.ToLower(validation.Sanitize(upd.Email))
	user.FirstName = validation.Sanitize(upd.FirstName)
	user.LastName = validation.Sanitize(upd.LastName)
	if upd.Username != nil {
		trimmed := validation.Sanitize(*upd.Username)
		user.Username = &trimmed
	}
	if upd.PictureURL != nil {
		trimmed := validation.Sanitize(*upd.PictureURL)
		user.PictureURL = &trimmed
	}

	if err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
