// Package common defines shared sentinel errors and secret-generation
// helpers used across the Sonder backend. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authentication errors: the presented secret does not establish a session.
	ErrMissingBearer      = errors.New("missing bearer token")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialExpired  = errors.New("credential expired")
	ErrCredentialRevoked  = errors.New("credential revoked")

	// Authorization errors: the user is known but the action is forbidden.
	ErrNotCircleMember   = errors.New("not a circle member")
	ErrNotResourceAuthor = errors.New("not the resource author")

	// Invitation lifecycle errors.
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrInvitationRevoked  = errors.New("invitation revoked")

	// Conflict errors.
	ErrAlreadyInCircle = errors.New("already in a circle")
	ErrEmailInUse      = errors.New("email already in use")

	// Onboarding errors.
	ErrEmailNotVerified = errors.New("provider email not verified")
)
