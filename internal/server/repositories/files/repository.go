// Package files owns the canonical File records. Soft delete is terminal:
// a tombstoned file never comes back through these operations.
package files

import (
	"context"

	"github.com/vkarpenko/drivespace/internal/server/models"
)

type Repository interface {
	// Create inserts the file record. The caller is responsible for having
	// verified the parent folder is active.
	Create(ctx context.Context, file *models.File) (*models.File, error)

	// GetActiveByName returns the non-deleted file with the given filename.
	// Keyed by (owner, filename) only, so same-named files in different
	// folders are indistinguishable here.
	GetActiveByName(ctx context.Context, ownerID, filename string) (*models.File, error)

	// ListActiveByFolder returns all non-deleted files in a folder.
	ListActiveByFolder(ctx context.Context, ownerID, folderID string) ([]*models.File, error)

	// Rename updates filename and access URL in one statement. Renaming to
	// the current filename is a no-op success.
	Rename(ctx context.Context, id, newFilename, newAccessURL string) error

	// SoftDelete tombstones the file; subsequent lookups exclude it.
	SoftDelete(ctx context.Context, id string) error
}
