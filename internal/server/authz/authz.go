// Package authz contains the authorization predicates evaluated by every
// protected operation. All predicates are pure: they take already-loaded
// entities and perform no I/O, so callers decide when (and whether) to hit
// the store.
package authz

import "github.com/sonder-app/sonder-backend/internal/server/models"

// Authored is any resource with an author (or host) the ownership predicate
// can be checked against. Posts, comments, and events all satisfy it, which
// keeps the check in one place instead of one copy per resource type.
type Authored interface {
	AuthorID() string
}

// IsInCircle reports whether the user belongs to any circle.
func IsInCircle(user *models.User) bool {
	return user != nil && user.CircleID != nil
}

// IsCircleMember reports whether the user belongs to the given circle.
func IsCircleMember(user *models.User, circle *models.Circle) bool {
	if user == nil || circle == nil || user.CircleID == nil {
		return false
	}
	return *user.CircleID == circle.ID
}

// IsMemberOf reports whether the user belongs to the circle with the given
// id. Services use it to gate circle-scoped reads before loading the
// resource, so a non-member cannot probe what exists inside a circle.
func IsMemberOf(user *models.User, circleID string) bool {
	if user == nil || user.CircleID == nil || circleID == "" {
		return false
	}
	return *user.CircleID == circleID
}

// IsResourceAuthor reports whether the user authored (or hosts) the resource.
func IsResourceAuthor(user *models.User, resource Authored) bool {
	if user == nil || resource == nil {
		return false
	}
	return user.ID == resource.AuthorID()
}
