package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sonder-app/sonder-backend/internal/common"
	"github.com/sonder-app/sonder-backend/internal/server/identity"
	"github.com/sonder-app/sonder-backend/internal/server/validation"
)

type apiError struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeJSONError(w http.ResponseWriter, status int, message, errorType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Error: errorDetail{Message: message, Type: errorType}})
}

// writeError maps service errors onto HTTP statuses. Authentication failures
// are 401, authorization 403, lookups 404, state conflicts 409, bad input
// 422. Anything unmapped is a 500 with no detail leaked.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.Is(err, common.ErrMissingBearer):
		writeJSONError(w, http.StatusUnauthorized, "missing bearer token", "authentication_error")
	case errors.Is(err, common.ErrCredentialNotFound),
		errors.Is(err, common.ErrCredentialRevoked),
		errors.Is(err, common.ErrCredentialExpired),
		errors.Is(err, identity.ErrTokenRejected):
		writeJSONError(w, http.StatusUnauthorized, "invalid credentials", "authentication_error")
	case errors.Is(err, common.ErrNotCircleMember),
		errors.Is(err, common.ErrNotResourceAuthor):
		writeJSONError(w, http.StatusForbidden, "forbidden", "authorization_error")
	case errors.Is(err, common.ErrInvitationNotFound):
		writeJSONError(w, http.StatusNotFound, "invitation not found", "not_found")
	case errors.Is(err, common.ErrInvitationRevoked):
		writeJSONError(w, http.StatusNotFound, "invitation superseded", "not_found")
	case errors.Is(err, common.ErrInvitationExpired):
		writeJSONError(w, http.StatusNotFound, "invitation expired", "not_found")
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not found", "not_found")
	case errors.Is(err, common.ErrAlreadyInCircle):
		writeJSONError(w, http.StatusConflict, "already in a circle", "conflict")
	case errors.Is(err, common.ErrEmailInUse):
		writeJSONError(w, http.StatusConflict, "email already in use", "conflict")
	case errors.As(err, &verr):
		writeJSONError(w, http.StatusUnprocessableEntity, verr.Error(), "validation_error")
	case errors.Is(err, common.ErrEmailNotVerified):
		writeJSONError(w, http.StatusUnprocessableEntity, "email not verified", "validation_error")
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error", "server_error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
