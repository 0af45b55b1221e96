package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/dbx"
	"github.com/vkarpenko/drivespace/internal/server/models"
)

// PostgresRepository implements file storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (id, filename, content_type, size, access_url, owner_id, folder_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	file.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.Filename, file.ContentType, file.Size, file.AccessURL,
		file.OwnerID, file.FolderID).
		Scan(&file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}

	return file, nil
}

func (r *PostgresRepository) GetActiveByName(ctx context.Context, ownerID, filename string) (*models.File, error) {
	query := `
		SELECT id, filename, content_type, size, access_url, owner_id, folder_id, is_deleted, created_at, updated_at
		FROM files
		WHERE owner_id = $1 AND filename = $2 AND NOT is_deleted
	`

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, ownerID, filename).Scan(
		&file.ID, &file.Filename, &file.ContentType, &file.Size, &file.AccessURL,
		&file.OwnerID, &file.FolderID, &file.IsDeleted, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}

	return file, nil
}

func (r *PostgresRepository) ListActiveByFolder(ctx context.Context, ownerID, folderID string) ([]*models.File, error) {
	query := `
		SELECT id, filename, content_type, size, access_url, owner_id, folder_id, is_deleted, created_at, updated_at
		FROM files
		WHERE owner_id = $1 AND folder_id = $2 AND NOT is_deleted
		ORDER BY filename
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		file := &models.File{}
		if err := rows.Scan(
			&file.ID, &file.Filename, &file.ContentType, &file.Size, &file.AccessURL,
			&file.OwnerID, &file.FolderID, &file.IsDeleted, &file.CreatedAt, &file.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
		}
		result = append(result, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}

	return result, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id, newFilename, newAccessURL string) error {
	query := `
		UPDATE files SET filename = $2, access_url = $3, updated_at = now()
		WHERE id = $1 AND NOT is_deleted
	`

	res, err := r.db.ExecContext(ctx, query, id, newFilename, newAccessURL)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE files SET is_deleted = true, updated_at = now()
		WHERE id = $1 AND NOT is_deleted
	`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
