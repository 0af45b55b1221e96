// Package users stores the owning principals.
package users

import (
	"context"

	"github.com/vkarpenko/drivespace/internal/server/models"
)

type Repository interface {
	// Create inserts a user; duplicate username or email yields
	// ErrDuplicateUser.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// Update rewrites the mutable profile fields.
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user row; folders and files cascade.
	Delete(ctx context.Context, id string) error
}
