// Package httpapi exposes the backend over HTTP. Handlers stay thin: decode,
// call a service, map the error to a status, encode. All policy lives in the
// services.
package httpapi

import (
	"context"
	"net/http"

	"github.com/sonder-app/sonder-backend/internal/logging"
	"github.com/sonder-app/sonder-backend/internal/server/models"
	"github.com/sonder-app/sonder-backend/internal/server/services"
)

// AuthService covers login, logout, and profile management.
type AuthService interface {
	LoginWithProvider(ctx context.Context, providerToken string) (*services.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, upd services.ProfileUpdate) (*models.User, error)
}

// TokenService covers credential resolution and rotation.
type TokenService interface {
	Resolve(ctx context.Context, kind models.CredentialKind, secret string) (*models.User, error)
	Refresh(ctx context.Context, secret string) (*services.TokenPair, error)
}

// CircleService covers circle management.
type CircleService interface {
	Create(ctx context.Context, name, description string, pictureURL *string) (*models.Circle, error)
	Get(ctx context.Context, user *models.User, circleID string) (*models.Circle, error)
	Members(ctx context.Context, user *models.User, circleID string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User, circleID, name, description string, pictureURL *string) (*models.Circle, error)
}

// InvitationService covers invitation codes.
type InvitationService interface {
	Create(ctx context.Context, user *models.User, circleID string) (*models.CircleInvitation, error)
	JoinViaCode(ctx context.Context, user *models.User, code string) (*models.Circle, error)
}

// MediaService covers presigned picture uploads.
type MediaService interface {
	PresignPicturePut(ctx context.Context, scope string) (string, string, error)
}

// Server holds the handler dependencies.
type Server struct {
	users       AuthService
	tokens      TokenService
	circles     CircleService
	invitations InvitationService
	media       MediaService
	logger      logging.Logger
}

// NewServer constructs a Server.
func NewServer(users AuthService, tokens TokenService, circles CircleService, invitations InvitationService, media MediaService, logger logging.Logger) *Server {
	return &Server{
		users:       users,
		tokens:      tokens,
		circles:     circles,
		invitations: invitations,
		media:       media,
		logger:      logger,
	}
}

// Routes builds the full route table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /auth/logout", s.requireAuth(s.handleLogout))

	mux.HandleFunc("GET /me", s.requireAuth(s.handleGetMe))
	mux.HandleFunc("PATCH /me", s.requireAuth(s.handleUpdateMe))

	mux.HandleFunc("POST /circles", s.requireAuth(s.handleCreateCircle))
	mux.HandleFunc("GET /circles/{circleID}", s.requireAuth(s.handleGetCircle))
	mux.HandleFunc("PATCH /circles/{circleID}", s.requireAuth(s.handleUpdateCircle))
	mux.HandleFunc("GET /circles/{circleID}/members", s.requireAuth(s.handleCircleMembers))
	mux.HandleFunc("POST /circles/{circleID}/invitations", s.requireAuth(s.handleCreateInvitation))
	mux.HandleFunc("POST /circles/join", s.requireAuth(s.handleJoinCircle))

	mux.HandleFunc("POST /media/pictures", s.requireAuth(s.handlePresignPicture))

	return mux
}
