// Package services holds the namespace reconciliation engine, the folder
// listing aggregator and the user service. The engine orchestrates every
// multi-step operation spanning the metadata store and the object store;
// since the two stores share no transaction boundary, each operation is a
// short-lived saga with a fixed step order and documented failure windows.
// There is no automatic compensation and no retry: a window that opens is
// logged, counted, and left for the operator.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/keyspace"
	"github.com/vkarpenko/drivespace/internal/logging"
	"github.com/vkarpenko/drivespace/internal/server/auth"
	"github.com/vkarpenko/drivespace/internal/server/blobstore"
	"github.com/vkarpenko/drivespace/internal/server/cache"
	"github.com/vkarpenko/drivespace/internal/server/metrics"
	"github.com/vkarpenko/drivespace/internal/server/models"
	"github.com/vkarpenko/drivespace/internal/server/repositories/files"
	"github.com/vkarpenko/drivespace/internal/server/repositories/folders"
)

// presignTTL is the validity of every issued access URL. URLs are never
// invalidated early; a URL issued before a rename keeps resolving to the old
// key until it expires.
const presignTTL = 1 * time.Hour

// placeholderContentType marks zero-byte folder and namespace placeholders.
const placeholderContentType = "application/x-directory"

// UploadTicket is the phase-A response: a one-shot upload URL and the object
// key the client must write to. No metadata exists for the file yet.
type UploadTicket struct {
	UploadURL string
	Key       string
}

// NamespaceService is the reconciliation engine. All collaborators are
// injected; the service holds no state of its own beyond them.
type NamespaceService struct {
	folders folders.Repository
	files   files.Repository
	store   blobstore.Store
	cache   *cache.FolderCache
	metrics *metrics.NamespaceMetrics
	logger  logging.Logger
}

func NewNamespaceService(
	foldersRepo folders.Repository,
	filesRepo files.Repository,
	store blobstore.Store,
	folderCache *cache.FolderCache,
	m *metrics.NamespaceMetrics,
	logger logging.Logger,
) *NamespaceService {
	return &NamespaceService{
		folders: foldersRepo,
		files:   filesRepo,
		store:   store,
		cache:   folderCache,
		metrics: m,
		logger:  logger.With("component", "namespace"),
	}
}

// activeFolder resolves the caller's active folder by name, going through
// the cache first. Misses are filled from the repository.
func (s *NamespaceService) activeFolder(ctx context.Context, ownerID, name string) (*models.Folder, error) {
	if folder, ok := s.cache.Get(ctx, ownerID, name); ok {
		return folder, nil
	}

	folder, err := s.folders.GetActiveByName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, folder)
	return folder, nil
}

// CreateFolder materializes a folder in both stores: placeholder object
// first, metadata record second. A metadata failure after the placeholder
// put leaves the placeholder orphaned; nothing removes it.
func (s *NamespaceService) CreateFolder(ctx context.Context, p auth.Principal, name string, parentID *string) (*models.Folder, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: folder name is required and must not contain '/'", common.ErrInvalidInput)
	}

	if _, err := s.activeFolder(ctx, p.ID, name); err == nil {
		s.metrics.OperationFailures.WithLabelValues("create_folder").Inc()
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicateFolder, name)
	} else if !errors.Is(err, common.ErrNotFound) {
		s.metrics.OperationFailures.WithLabelValues("create_folder").Inc()
		return nil, err
	}

	key := keyspace.FolderKey(p.Username, name)
	if err := s.store.Put(ctx, key, placeholderContentType); err != nil {
		s.metrics.OperationFailures.WithLabelValues("create_folder").Inc()
		return nil, err
	}

	folder, err := s.folders.Create(ctx, &models.Folder{
		Name:        name,
		OwnerID:     p.ID,
		ParentID:    parentID,
		StoragePath: key,
	})
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("create_folder").Inc()
		if !errors.Is(err, common.ErrDuplicateFolder) {
			s.metrics.OrphanWindows.WithLabelValues("create_folder").Inc()
			s.logger.Warn(ctx, "folder metadata write failed after placeholder put, placeholder orphaned",
				"key", key, "owner_id", p.ID, "error", err)
		}
		return nil, err
	}

	s.cache.Set(ctx, folder)
	s.metrics.FoldersCreated.Inc()
	s.logger.Info(ctx, "folder created", "name", name, "owner", p.Username)
	return folder, nil
}

// RequestUpload is phase A of the two-phase upload: it mints a presigned
// upload URL for the target key and returns it. No metadata is written; the
// client uploads out-of-band and the engine learns nothing until phase B.
func (s *NamespaceService) RequestUpload(ctx context.Context, p auth.Principal, folderName, filename, contentType string) (*UploadTicket, error) {
	if folderName == "" || filename == "" {
		return nil, fmt.Errorf("%w: folder name and filename are required", common.ErrInvalidInput)
	}
	if strings.Contains(filename, "/") {
		return nil, fmt.Errorf("%w: filename must not contain '/'", common.ErrInvalidInput)
	}

	key := keyspace.FileKey(p.Username, folderName, filename)
	url, err := s.store.PresignPut(ctx, key, contentType, presignTTL)
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("request_upload").Inc()
		return nil, err
	}

	s.metrics.UploadsRequested.Inc()
	return &UploadTicket{UploadURL: url, Key: key}, nil
}

// ConfirmUpload is phase B: it persists the File record for an object the
// client claims to have uploaded. The claim is not verified; confirming an
// abandoned upload produces metadata pointing at a missing object.
func (s *NamespaceService) ConfirmUpload(ctx context.Context, p auth.Principal, key, folderName, contentType string, size int64) (*models.File, error) {
	if key == "" || folderName == "" {
		return nil, fmt.Errorf("%w: key and folder name are required", common.ErrInvalidInput)
	}
	if !keyspace.WithinNamespace(p.Username, key) {
		return nil, fmt.Errorf("%w: key outside caller namespace", common.ErrForbidden)
	}

	folder, err := s.activeFolder(ctx, p.ID, folderName)
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("confirm_upload").Inc()
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, key, presignTTL)
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("confirm_upload").Inc()
		return nil, err
	}

	file, err := s.files.Create(ctx, &models.File{
		Filename:    keyspace.FileName(key),
		ContentType: contentType,
		Size:        size,
		AccessURL:   url,
		OwnerID:     p.ID,
		FolderID:    folder.ID,
	})
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("confirm_upload").Inc()
		return nil, err
	}

	s.metrics.UploadsConfirmed.Inc()
	s.logger.Info(ctx, "upload confirmed", "key", key, "size", size, "owner", p.Username)
	return file, nil
}

// RenameFile moves a file to a new name within its folder: copy to the new
// key, delete the old key, refresh the access URL, update metadata. Copy and
// delete are independent calls; a failed delete after a successful copy
// leaves the old object orphaned and the operation proceeds to metadata.
func (s *NamespaceService) RenameFile(ctx context.Context, p auth.Principal, oldKey, newName string) (*models.File, error) {
	if oldKey == "" || newName == "" {
		return nil, fmt.Errorf("%w: key and new name are required", common.ErrInvalidInput)
	}
	if strings.Contains(newName, "/") {
		return nil, fmt.Errorf("%w: new name must not contain '/'", common.ErrInvalidInput)
	}
	if !keyspace.WithinNamespace(p.Username, oldKey) {
		return nil, fmt.Errorf("%w: key outside caller namespace", common.ErrForbidden)
	}

	newKey := keyspace.RenameKey(oldKey, newName)

	file, err := s.files.GetActiveByName(ctx, p.ID, keyspace.FileName(oldKey))
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("rename_file").Inc()
		return nil, err
	}

	if err := s.store.Copy(ctx, oldKey, newKey); err != nil {
		s.metrics.OperationFailures.WithLabelValues("rename_file").Inc()
		return nil, err
	}

	if err := s.store.Delete(ctx, oldKey); err != nil {
		s.metrics.OrphanWindows.WithLabelValues("rename_file").Inc()
		s.logger.Warn(ctx, "old object delete failed after copy, object orphaned",
			"key", oldKey, "new_key", newKey, "error", err)
	}

	url, err := s.store.PresignGet(ctx, newKey, presignTTL)
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("rename_file").Inc()
		s.metrics.OrphanWindows.WithLabelValues("rename_file").Inc()
		s.logger.Warn(ctx, "access url refresh failed after copy, storage ahead of metadata",
			"key", newKey, "error", err)
		return nil, err
	}

	if err := s.files.Rename(ctx, file.ID, newName, url); err != nil {
		s.metrics.OperationFailures.WithLabelValues("rename_file").Inc()
		s.metrics.OrphanWindows.WithLabelValues("rename_file").Inc()
		s.logger.Warn(ctx, "metadata rename failed after storage moved",
			"key", newKey, "file_id", file.ID, "error", err)
		return nil, err
	}

	file.Filename = newName
	file.AccessURL = url
	s.metrics.FilesRenamed.Inc()
	s.logger.Info(ctx, "file renamed", "from", oldKey, "to", newKey, "owner", p.Username)
	return file, nil
}

// DeleteFile removes the object and tombstones the metadata record, in that
// order. A failed blob delete aborts with both stores unchanged; a failed
// tombstone after a successful delete leaves metadata advertising a file
// whose bytes are gone.
func (s *NamespaceService) DeleteFile(ctx context.Context, p auth.Principal, key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", common.ErrInvalidInput)
	}
	if !keyspace.WithinNamespace(p.Username, key) {
		return fmt.Errorf("%w: key outside caller namespace", common.ErrForbidden)
	}

	file, err := s.files.GetActiveByName(ctx, p.ID, keyspace.FileName(key))
	if err != nil {
		s.metrics.OperationFailures.WithLabelValues("delete_file").Inc()
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		s.metrics.OperationFailures.WithLabelValues("delete_file").Inc()
		return err
	}

	if err := s.files.SoftDelete(ctx, file.ID); err != nil {
		s.metrics.OperationFailures.WithLabelValues("delete_file").Inc()
		s.metrics.OrphanWindows.WithLabelValues("delete_file").Inc()
		s.logger.Warn(ctx, "tombstone failed after blob delete, metadata still lists file",
			"key", key, "file_id", file.ID, "error", err)
		return err
	}

	s.metrics.FilesDeleted.Inc()
	s.logger.Info(ctx, "file deleted", "key", key, "owner", p.Username)
	return nil
}
