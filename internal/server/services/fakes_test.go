package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/logging"
	"github.com/vkarpenko/drivespace/internal/server/blobstore"
	"github.com/vkarpenko/drivespace/internal/server/metrics"
	"github.com/vkarpenko/drivespace/internal/server/models"
)

// fakeStore is a spy double for blobstore.Store. Every call is recorded as
// "verb key" so tests can assert ordering and zero-call guarantees.
type fakeStore struct {
	calls []string

	putErr        error
	presignPutErr error
	presignGetErr error
	copyErr       error
	deleteErr     error
	listErr       error

	objects []blobstore.ObjectInfo
}

func (f *fakeStore) Put(_ context.Context, key, _ string) error {
	f.calls = append(f.calls, "put "+key)
	return f.putErr
}

func (f *fakeStore) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	f.calls = append(f.calls, "presign_put "+key)
	if f.presignPutErr != nil {
		return "", f.presignPutErr
	}
	return "https://store.test/upload/" + key, nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	f.calls = append(f.calls, "presign_get "+key)
	if f.presignGetErr != nil {
		return "", f.presignGetErr
	}
	return "https://store.test/get/" + key, nil
}

func (f *fakeStore) Copy(_ context.Context, src, dst string) error {
	f.calls = append(f.calls, fmt.Sprintf("copy %s %s", src, dst))
	return f.copyErr
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.calls = append(f.calls, "delete "+key)
	return f.deleteErr
}

func (f *fakeStore) ListPrefix(_ context.Context, prefix string) ([]blobstore.ObjectInfo, error) {
	f.calls = append(f.calls, "list "+prefix)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

// fakeFolders is an in-memory folders.Repository.
type fakeFolders struct {
	calls     int
	byName    map[string]*models.Folder // ownerID + "/" + name
	createErr error
	getErr    error
}

func newFakeFolders() *fakeFolders {
	return &fakeFolders{byName: make(map[string]*models.Folder)}
}

func (f *fakeFolders) key(ownerID, name string) string { return ownerID + "/" + name }

func (f *fakeFolders) Create(_ context.Context, folder *models.Folder) (*models.Folder, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	k := f.key(folder.OwnerID, folder.Name)
	if _, ok := f.byName[k]; ok {
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicateFolder, folder.Name)
	}
	folder.ID = uuid.NewString()
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = folder.CreatedAt
	f.byName[k] = folder
	return folder, nil
}

func (f *fakeFolders) GetActiveByName(_ context.Context, ownerID, name string) (*models.Folder, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if folder, ok := f.byName[f.key(ownerID, name)]; ok {
		return folder, nil
	}
	return nil, fmt.Errorf("%w: folder %s", common.ErrNotFound, name)
}

func (f *fakeFolders) SoftDelete(_ context.Context, id string) error {
	f.calls++
	for k, folder := range f.byName {
		if folder.ID == id {
			delete(f.byName, k)
			return nil
		}
	}
	return common.ErrNotFound
}

// fakeFiles is an in-memory files.Repository. Tombstoned records stay in the
// slice but are excluded from active lookups, matching the real repo.
type fakeFiles struct {
	calls         int
	records       []*models.File
	createErr     error
	getErr        error
	renameErr     error
	softDeleteErr error
}

func (f *fakeFiles) Create(_ context.Context, file *models.File) (*models.File, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	file.ID = uuid.NewString()
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt
	f.records = append(f.records, file)
	return file, nil
}

func (f *fakeFiles) GetActiveByName(_ context.Context, ownerID, filename string) (*models.File, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, file := range f.records {
		if file.OwnerID == ownerID && file.Filename == filename && !file.IsDeleted {
			return file, nil
		}
	}
	return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, filename)
}

func (f *fakeFiles) ListActiveByFolder(_ context.Context, ownerID, folderID string) ([]*models.File, error) {
	f.calls++
	var out []*models.File
	for _, file := range f.records {
		if file.OwnerID == ownerID && file.FolderID == folderID && !file.IsDeleted {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func (f *fakeFiles) Rename(_ context.Context, id, newFilename, newAccessURL string) error {
	f.calls++
	if f.renameErr != nil {
		return f.renameErr
	}
	for _, file := range f.records {
		if file.ID == id && !file.IsDeleted {
			file.Filename = newFilename
			file.AccessURL = newAccessURL
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeFiles) SoftDelete(_ context.Context, id string) error {
	f.calls++
	if f.softDeleteErr != nil {
		return f.softDeleteErr
	}
	for _, file := range f.records {
		if file.ID == id && !file.IsDeleted {
			file.IsDeleted = true
			return nil
		}
	}
	return common.ErrNotFound
}

// fakeUsers is an in-memory users.Repository.
type fakeUsers struct {
	records   []*models.User
	createErr error
	updateErr error
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.records {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateUser, user.Username)
		}
	}
	user.ID = uuid.NewString()
	if user.Role == "" {
		user.Role = "User"
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.records = append(f.records, user)
	return user, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.records {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, id)
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.records {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, email)
}

func (f *fakeUsers) List(_ context.Context) ([]*models.User, error) {
	return f.records, nil
}

func (f *fakeUsers) Update(_ context.Context, user *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, u := range f.records {
		if u.ID == user.ID {
			f.records[i] = user
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	for i, u := range f.records {
		if u.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testMetrics() *metrics.NamespaceMetrics {
	return metrics.New(prometheus.NewRegistry())
}
