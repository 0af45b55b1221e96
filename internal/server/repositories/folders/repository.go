// Package folders owns the canonical Folder records: creation, lookup by
// (owner, name), and soft delete.
package folders

import (
	"context"

	"github.com/vkarpenko/drivespace/internal/server/models"
)

type Repository interface {
	// Create inserts the folder and returns it with id and timestamps set.
	// An active folder with the same (owner, name) yields ErrDuplicateFolder.
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)

	// GetActiveByName returns the non-deleted folder with the given name.
	// Lookups are keyed by (owner, name) only: sibling folders with the
	// same name under different parents are indistinguishable here.
	GetActiveByName(ctx context.Context, ownerID, name string) (*models.Folder, error)

	// SoftDelete tombstones the folder. Not reachable from any endpoint;
	// kept as a repository capability.
	SoftDelete(ctx context.Context, id string) error
}
