package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sonder-app/sonder-backend/internal/server/services"
)

// handleLogin exchanges a provider access token, carried in the bearer
// header, for a local credential pair.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	providerToken, err := extractBearerToken(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.LoginWithProvider(r.Context(), providerToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:         toCredentialDTO(res.Pair.Access),
		RefreshToken:        toCredentialDTO(res.Pair.Refresh),
		UserNeedsOnboarding: res.NeedsOnboarding,
		UserInCircle:        res.InCircle,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body", "invalid_request")
		return
	}

	pair, err := s.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenPairDTO(pair))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}

	if err := s.users.Logout(r.Context(), user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body", "invalid_request")
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), user, services.ProfileUpdate{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Username:   req.Username,
		PictureURL: req.PictureURL,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(updated))
}

func (s *Server) handleCreateCircle(w http.ResponseWriter, r *http.Request) {
	var req circleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body", "invalid_request")
		return
	}

	circle, err := s.circles.Create(r.Context(), req.Name, req.Description, req.PictureURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCircleDTO(circle))
}

func (s *Server) handleGetCircle(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}

	circle, err := s.circles.Get(r.Context(), user, r.PathValue("circleID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCircleDTO(circle))
}

func (s *Server) handleUpdateCircle(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}

	var req circleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body", "invalid_request")
		return
	}

	circle, err := s.circles.Update(r.Context(), user, r.PathValue("circleID"), req.Name, req.Description, req.PictureURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCircleDTO(circle))
}

func (s *Server) handleCircleMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}

	members, err := s.circles.Members(r.Context(), user, r.PathValue("circleID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]userDTO, 0, len(members))
	for _, m := range members {
		out = append(out, toUserDTO(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}

	inv, err := s.invitations.Create(r.Context(), user, r.PathValue("circleID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvitationDTO(inv))
}

func (s *Server) handleJoinCircle(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body", "invalid_request")
		return
	}

	circle, err := s.invitations.JoinViaCode(r.Context(), user, req.Invitation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCircleDTO(circle))
}

func (s *Server) handlePresignPicture(w http.ResponseWriter, r *http.Request) {
	var req presignPictureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body", "invalid_request")
		return
	}
	if req.Scope != services.ScopeUsers && req.Scope != services.ScopeCircles {
		writeJSONError(w, http.StatusUnprocessableEntity, "unknown picture scope", "validation_error")
		return
	}

	key, url, err := s.media.PresignPicturePut(r.Context(), req.Scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presignPictureResponse{Key: key, UploadURL: url})
}
