package models

import "time"

// Folder is the authoritative metadata record for a folder. StoragePath is
// the object-store placeholder key ("{owner}/{name}/"), computed once at
// creation and never recomputed afterwards.
//
// Deleted folders keep their rows; a soft-deleted name becomes available
// for reuse.
type Folder struct {
	ID          string
	Name        string
	OwnerID     string
	ParentID    *string // nil means root-level
	StoragePath string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
