// Package cache provides a read-through Redis cache for active folder
// records. The cache is advisory: every failure degrades to a miss and the
// metadata store stays authoritative. Access URLs are never cached here —
// they expire and must be re-issued on every read.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vkarpenko/drivespace/internal/logging"
	"github.com/vkarpenko/drivespace/internal/server/models"
)

// folderTTL bounds staleness for cached folder records.
const folderTTL = 5 * time.Minute

type FolderCache struct {
	client *redis.Client
	logger logging.Logger
}

// NewFolderCache connects to Redis. A failed ping is returned as an error so
// the bootstrap can decide whether to run without a cache (a nil *FolderCache
// is valid and behaves as a permanent miss).
func NewFolderCache(ctx context.Context, addr, password string, db int, logger logging.Logger) (*FolderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &FolderCache{client: client, logger: logger.With("component", "folder_cache")}, nil
}

func (c *FolderCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func folderKey(ownerID, name string) string {
	return fmt.Sprintf("folder:%s:%s", ownerID, name)
}

// Get returns the cached folder record, or (nil, false) on miss.
func (c *FolderCache) Get(ctx context.Context, ownerID, name string) (*models.Folder, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, folderKey(ownerID, name)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn(ctx, "cache read failed", "owner_id", ownerID, "name", name, "error", err)
		return nil, false
	}

	var folder models.Folder
	if err := json.Unmarshal([]byte(data), &folder); err != nil {
		c.logger.Warn(ctx, "cache entry unmarshal failed", "name", name, "error", err)
		return nil, false
	}
	return &folder, true
}

// Set stores the folder record for folderTTL.
func (c *FolderCache) Set(ctx context.Context, folder *models.Folder) {
	if c == nil {
		return
	}

	data, err := json.Marshal(folder)
	if err != nil {
		c.logger.Warn(ctx, "cache entry marshal failed", "name", folder.Name, "error", err)
		return
	}
	if err := c.client.Set(ctx, folderKey(folder.OwnerID, folder.Name), data, folderTTL).Err(); err != nil {
		c.logger.Warn(ctx, "cache write failed", "name", folder.Name, "error", err)
	}
}

// Invalidate drops the cached record for (ownerID, name). No endpoint
// mutates an existing folder today, so nothing calls this yet; it belongs to
// the same future wiring as folders.Repository.SoftDelete.
func (c *FolderCache) Invalidate(ctx context.Context, ownerID, name string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, folderKey(ownerID, name)).Err(); err != nil {
		c.logger.Warn(ctx, "cache invalidate failed", "owner_id", ownerID, "name", name, "error", err)
	}
}
