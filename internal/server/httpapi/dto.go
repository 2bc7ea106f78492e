package httpapi

import (
	"time"

	"github.com/sonder-app/sonder-backend/internal/server/models"
	"github.com/sonder-app/sonder-backend/internal/server/services"
)

type credentialDTO struct {
	Token     string    `json:"token"`
	OwnerID   string    `json:"ownerID"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
}

func toCredentialDTO(c *models.Credential) credentialDTO {
	return credentialDTO{
		Token:     c.Token,
		OwnerID:   c.UserID,
		ExpiresAt: c.ExpiresAt,
		Revoked:   c.Revoked,
	}
}

type tokenPairDTO struct {
	AccessToken  credentialDTO `json:"accessToken"`
	RefreshToken credentialDTO `json:"refreshToken"`
}

func toTokenPairDTO(p *services.TokenPair) tokenPairDTO {
	return tokenPairDTO{
		AccessToken:  toCredentialDTO(p.Access),
		RefreshToken: toCredentialDTO(p.Refresh),
	}
}

type loginResponse struct {
	AccessToken         credentialDTO `json:"accessToken"`
	RefreshToken        credentialDTO `json:"refreshToken"`
	UserNeedsOnboarding bool          `json:"userNeedsOnboarding"`
	UserInCircle        bool          `json:"userInCircle"`
}

type userDTO struct {
	ID         string  `json:"id"`
	CircleID   *string `json:"circleID,omitempty"`
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Username   *string `json:"username,omitempty"`
	PictureURL *string `json:"pictureUrl,omitempty"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{
		ID:         u.ID,
		CircleID:   u.CircleID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		PictureURL: u.PictureURL,
	}
}

type circleDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PictureURL  *string `json:"pictureUrl,omitempty"`
}

func toCircleDTO(c *models.Circle) circleDTO {
	return circleDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		PictureURL:  c.PictureURL,
	}
}

type invitationDTO struct {
	ID         string    `json:"id"`
	Invitation string    `json:"invitation"`
	CircleID   string    `json:"circleID"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Revoked    bool      `json:"revoked"`
}

func toInvitationDTO(inv *models.CircleInvitation) invitationDTO {
	return invitationDTO{
		ID:         inv.ID,
		Invitation: inv.InvitationCode,
		CircleID:   inv.CircleID,
		ExpiresAt:  inv.ExpiresAt,
		Revoked:    inv.Revoked,
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Username   *string `json:"username,omitempty"`
	PictureURL *string `json:"pictureUrl,omitempty"`
}

type circleRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PictureURL  *string `json:"pictureUrl,omitempty"`
}

type joinRequest struct {
	Invitation string `json:"invitation"`
}

type presignPictureRequest struct {
	Scope string `json:"scope"`
}

type presignPictureResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}
