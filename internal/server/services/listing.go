package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/keyspace"
	"github.com/vkarpenko/drivespace/internal/logging"
	"github.com/vkarpenko/drivespace/internal/server/auth"
	"github.com/vkarpenko/drivespace/internal/server/blobstore"
	"github.com/vkarpenko/drivespace/internal/server/cache"
	"github.com/vkarpenko/drivespace/internal/server/repositories/files"
	"github.com/vkarpenko/drivespace/internal/server/repositories/folders"
)

// FileEntry is one file in a per-folder listing. URL is freshly presigned on
// every read; the stored access URL is never served.
type FileEntry struct {
	Name string
	Key  string
	Size int64
	URL  string
}

// FolderSummary is one entry of the storage-derived folder listing.
type FolderSummary struct {
	Name       string
	TotalItems int
}

// ListingService answers "what exists for this owner" along two independent
// read paths. Per-folder file listings come from the metadata store; the
// folder overview is re-derived from raw object keys and never consults
// metadata. The two paths can disagree whenever an operation's failure
// window left the stores diverged; neither path cross-checks the other.
type ListingService struct {
	folders folders.Repository
	files   files.Repository
	store   blobstore.Store
	cache   *cache.FolderCache
	logger  logging.Logger
}

func NewListingService(
	foldersRepo folders.Repository,
	filesRepo files.Repository,
	store blobstore.Store,
	folderCache *cache.FolderCache,
	logger logging.Logger,
) *ListingService {
	return &ListingService{
		folders: foldersRepo,
		files:   filesRepo,
		store:   store,
		cache:   folderCache,
		logger:  logger.With("component", "listing"),
	}
}

// ListFolderFiles returns the active files in a folder, metadata path. Each
// entry carries a fresh download URL minted for this response.
func (s *ListingService) ListFolderFiles(ctx context.Context, p auth.Principal, folderName string) ([]FileEntry, error) {
	if folderName == "" {
		return nil, fmt.Errorf("%w: folder name is required", common.ErrInvalidInput)
	}

	folder, ok := s.cache.Get(ctx, p.ID, folderName)
	if !ok {
		var err error
		folder, err = s.folders.GetActiveByName(ctx, p.ID, folderName)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, folder)
	}

	records, err := s.files.ListActiveByFolder(ctx, p.ID, folder.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]FileEntry, 0, len(records))
	for _, f := range records {
		key := keyspace.FileKey(p.Username, folderName, f.Filename)
		url, err := s.store.PresignGet(ctx, key, presignTTL)
		if err != nil {
			return nil, err
		}
		entries = append(entries, FileEntry{
			Name: f.Filename,
			Key:  key,
			Size: f.Size,
			URL:  url,
		})
	}

	return entries, nil
}

// ListFolders returns the owner's folders with item counts, storage path.
// The listing is derived purely from object keys under the owner prefix, so
// a folder whose placeholder write never landed does not appear here even if
// its metadata record exists.
func (s *ListingService) ListFolders(ctx context.Context, p auth.Principal) ([]FolderSummary, error) {
	prefix := keyspace.OwnerPrefix(p.Username)

	objects, err := s.store.ListPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}

	counts := keyspace.FoldersFromKeys(p.Username, keys)

	summaries := make([]FolderSummary, 0, len(counts))
	for name, n := range counts {
		summaries = append(summaries, FolderSummary{Name: name, TotalItems: n})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	return summaries, nil
}
