package models

import "time"

// Circle is a closed group that scopes members, posts, events, and
// invitation codes.
type Circle struct {
	ID           string
	Name         string
	Description  string
	PictureURL   *string
	CreatedAt    time.Time
	LastModified time.Time
}
