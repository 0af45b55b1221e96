package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkarpenko/drivespace/internal/dbx"
	"github.com/vkarpenko/drivespace/internal/server/repositories/files"
	"github.com/vkarpenko/drivespace/internal/server/repositories/folders"
	"github.com/vkarpenko/drivespace/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// runs schema migrations.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
}
