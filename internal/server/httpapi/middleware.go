package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/server/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user attached by requireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userContextKey).(*models.User)
	return u, ok
}

// extractBearerToken pulls the secret out of "Authorization: Bearer <token>".
// A missing or malformed header is common.ErrMissingBearer, which the error
// mapper keeps distinct from an invalid token.
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", common.ErrMissingBearer
	}
	token := strings.TrimPrefix(header, prefix)
	if token == "" {
		return "", common.ErrMissingBearer
	}
	return token, nil
}

// requireAuth resolves the bearer access token to a user and attaches it to
// the request context. No token is 401 with a "missing" message; a presented
// but dead token is 401 with an "invalid" message.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.tokens.Resolve(r.Context(), models.KindAccess, token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
