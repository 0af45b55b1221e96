// Package common defines the sentinel errors shared by repositories,
// services, and the HTTP boundary. Callers match them with errors.Is;
// wrapping with fmt.Errorf("%w: ...") is the expected way to add context.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrDuplicateFolder = errors.New("folder already exists")
	ErrDuplicateUser   = errors.New("user already exists")

	// Store availability errors. A failed object-store call wraps
	// ErrStorageUnavailable; a failed metadata-store call wraps
	// ErrMetadataUnavailable. Neither is retried by this server.
	ErrStorageUnavailable  = errors.New("object storage unavailable")
	ErrMetadataUnavailable = errors.New("metadata store unavailable")

	// Request validation, detected before any store call.
	ErrInvalidInput = errors.New("invalid input")

	// Forbidden marks a key addressed outside the caller's own namespace.
	ErrForbidden = errors.New("forbidden")

	// Auth-boundary errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
