// Package identity talks to the external identity provider. The OAuth
// handshake itself happens outside this backend; callers hand us a provider
// access token and we resolve it to a verified profile.
package identity

import (
	"context"
	"errors"
)

// ErrTokenRejected is returned when the provider does not accept the
// presented access token.
var ErrTokenRejected = errors.New("identity provider rejected token")

// UserInfo is the verified profile tuple returned by the provider's
// userinfo endpoint.
type UserInfo struct {
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	GivenName     string  `json:"given_name"`
	FamilyName    string  `json:"family_name"`
	Picture       *string `json:"picture,omitempty"`
}

// Provider resolves a provider access token to a user profile.
// Implementations must reject profiles whose email is not verified.
type Provider interface {
	FetchUserInfo(ctx context.Context, providerToken string) (*UserInfo, error)
}
