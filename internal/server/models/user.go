// Package models holds the persistent entities of the Sonder backend.
package models

import "time"

// User is the identity root. A user belongs to at most one circle, tracked by
// CircleID; nil means the user has not joined a circle yet.
type User struct {
	ID           string
	CircleID     *string
	Email        string
	FirstName    string
	LastName     string
	Username     *string
	PictureURL   *string
	CreatedAt    time.Time
	LastModified time.Time
}
