package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/dbx"
	"github.com/vkarpenko/drivespace/internal/server/models"
)

// PostgresRepository implements folder storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// uniqueViolation is the Postgres error code for constraint violations on
// unique indexes (raised here by folders_owner_name_active).
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	query := `
		INSERT INTO folders (id, name, owner_id, parent_id, storage_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	folder.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		folder.ID, folder.Name, folder.OwnerID, folder.ParentID, folder.StoragePath).
		Scan(&folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateFolder
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}

	return folder, nil
}

func (r *PostgresRepository) GetActiveByName(ctx context.Context, ownerID, name string) (*models.Folder, error) {
	query := `
		SELECT id, name, owner_id, parent_id, storage_path, is_deleted, created_at, updated_at
		FROM folders
		WHERE owner_id = $1 AND name = $2 AND NOT is_deleted
	`

	folder := &models.Folder{}
	err := r.db.QueryRowContext(ctx, query, ownerID, name).Scan(
		&folder.ID, &folder.Name, &folder.OwnerID, &folder.ParentID,
		&folder.StoragePath, &folder.IsDeleted, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataUnavailable, err)
	}

	return folder, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE folders SET is_deleted = true, updated_at = now()
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
