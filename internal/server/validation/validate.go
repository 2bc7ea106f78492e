package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// Error reports which field failed validation and why.
type Error struct {
	Field  Field
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Sanitize trims surrounding whitespace. Applied before every rule and by
// callers before persisting.
func Sanitize(value string) string {
	return strings.TrimSpace(value)
}

// Validate checks a single value against its field rule. The value is
// trimmed first; empty values fail.
func Validate(field Field, value string) error {
	trimmed := Sanitize(value)
	if trimmed == "" {
		return &Error{Field: field, Reason: "cannot be empty"}
	}

	switch field {
	case FieldEmail:
		// consecutive dots are not expressible in RE2, checked separately
		if strings.Contains(trimmed, "..") {
			return &Error{Field: field, Reason: "malformed address"}
		}
	case FieldPictureURL:
		if !usesOAuthHost(trimmed) {
			if !imageURLPattern.MatchString(trimmed) {
				return &Error{Field: field, Reason: "must point at an image file"}
			}
			return nil
		}
	}

	pattern, ok := patternByField[field]
	if !ok {
		return &Error{Field: field, Reason: "unknown field"}
	}
	if !pattern.MatchString(trimmed) {
		return &Error{Field: field, Reason: "does not match expected format"}
	}
	return nil
}

func usesOAuthHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, ok := oauthPictureHosts[u.Hostname()]
	return ok
}

// ValidateProfile checks the full set of user profile fields. Optional
// fields (username, pictureURL) are skipped when nil.
func ValidateProfile(email, firstName, lastName string, username, pictureURL *string) error {
	if err := Validate(FieldEmail, email); err != nil {
		return err
	}
	if err := Validate(FieldName, firstName); err != nil {
		return err
	}
	if err := Validate(FieldName, lastName); err != nil {
		return err
	}
	if username != nil {
		if err := Validate(FieldUsername, *username); err != nil {
			return err
		}
	}
	if pictureURL != nil {
		if err := Validate(FieldPictureURL, *pictureURL); err != nil {
			return err
		}
	}
	return nil
}
