package httpapi

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

// memStore is an in-memory blobstore.Store for end-to-end handler tests.
type memStore struct {
	objects map[string]int64
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string]int64)}
}

func (m *memStore) Put(_ context.Context, key, _ string) error {
	m.objects[key] = 0
	return nil
}

func (m *memStore) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://store.test/upload/" + key, nil
}

func (m *memStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://store.test/get/" + key, nil
}

func (m *memStore) Copy(_ context.Context, src, dst string) error {
	size, ok := m.objects[src]
	if !ok {
		return fmt.Errorf("%w: no object at %s", common.ErrStorageUnavailable, src)
	}
	m.objects[dst] = size
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStore) ListPrefix(_ context.Context, prefix string) ([]blobstore.ObjectInfo, error) {
	var out []blobstore.ObjectInfo
	for key, size := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, blobstore.ObjectInfo{Key: key, Size: size})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type memFolders struct {
	records []*models.Folder
}

func (m *memFolders) Create(_ context.Context, folder *models.Folder) (*models.Folder, error) {
	for _, f := range m.records {
		if f.OwnerID == folder.OwnerID && f.Name == folder.Name && !f.IsDeleted {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateFolder, folder.Name)
		}
	}
	folder.ID = uuid.NewString()
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = folder.CreatedAt
	m.records = append(m.records, folder)
	return folder, nil
}

func (m *memFolders) GetActiveByName(_ context.Context, ownerID, name string) (*models.Folder, error) {
	for _, f := range m.records {
		if f.OwnerID == ownerID && f.Name == name && !f.IsDeleted {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: folder %s", common.ErrNotFound, name)
}

func (m *memFolders) SoftDelete(_ context.Context, id string) error {
	for _, f := range m.records {
		if f.ID == id && !f.IsDeleted {
			f.IsDeleted = true
			return nil
		}
	}
	return common.ErrNotFound
}

type memFiles struct {
	records []*models.File
}

func (m *memFiles) Create(_ context.Context, file *models.File) (*models.File, error) {
	file.ID = uuid.NewString()
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt
	m.records = append(m.records, file)
	return file, nil
}

func (m *memFiles) GetActiveByName(_ context.Context, ownerID, filename string) (*models.File, error) {
	for _, f := range m.records {
		if f.OwnerID == ownerID && f.Filename == filename && !f.IsDeleted {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, filename)
}

func (m *memFiles) ListActiveByFolder(_ context.Context, ownerID, folderID string) ([]*models.File, error) {
	var out []*models.File
	for _, f := range m.records {
		if f.OwnerID == ownerID && f.FolderID == folderID && !f.IsDeleted {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func (m *memFiles) Rename(_ context.Context, id, newFilename, newAccessURL string) error {
	for _, f := range m.records {
		if f.ID == id && !f.IsDeleted {
			f.Filename = newFilename
			f.AccessURL = newAccessURL
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memFiles) SoftDelete(_ context.Context, id string) error {
	for _, f := range m.records {
		if f.ID == id && !f.IsDeleted {
			f.IsDeleted = true
			return nil
		}
	}
	return common.ErrNotFound
}

type memUsers struct {
	records []*models.User
}

func (m *memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range m.records {
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
	m.records = append(m.records, user)
	return user, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.records {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, id)
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.records {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, email)
}

func (m *memUsers) List(_ context.Context) ([]*models.User, error) {
	return m.records, nil
}

func (m *memUsers) Update(_ context.Context, user *models.User) error {
	for i, u := range m.records {
		if u.ID == user.ID {
			m.records[i] = user
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	for i, u := range m.records {
		if u.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
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
