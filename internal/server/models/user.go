// Package models defines the records persisted in the metadata store.
package models

import "time"

// User is an owning principal. The username doubles as the owner-namespace
// segment of every object-store key the user owns, so it is immutable after
// registration.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
