package models

import "time"

// File is the metadata record for an uploaded object. Filename always
// matches the last path segment of the file's current object-store key.
//
// AccessURL is a presigned, expiring URL; readers must refresh it on every
// listing rather than trust the stored value past its TTL.
//
// Soft delete is a metadata tombstone only: the blob is removed from the
// object store immediately and is not recoverable.
type File struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64
	AccessURL   string
	OwnerID     string
	FolderID    string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
