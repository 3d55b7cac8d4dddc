package utils

import (
	"NetVault/internal/repo"
	"NetVault/model"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Exists checks whether a cache key exists.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerOnce sync.Once

// InitCacheManager initializes the cache manager.
func InitCacheManager() {
	cacheManagerOnce.Do(func() {
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	})
}

// GetCacheManager returns the cache manager.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		InitCacheManager()
	}
	return globalCacheManager
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const (
	CacheKeyFolderList = "folder:list"
	CacheKeyFileList   = "file:list"
	CacheKeyShareToken = "share:token"
)

// GetFolderListFromCache reads a cached folder listing. Only the folder rows
// are cached; content counts are recomputed on every read so mutations under
// a child never leave a stale annotation behind.
func GetFolderListFromCache(ctx context.Context, ownerID, parentID uint64) ([]model.Folder, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFolderList, ownerID, parentID)

	var result []model.Folder
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return result, true
}

// SetFolderListToCache writes a cached folder listing.
func SetFolderListToCache(ctx context.Context, ownerID, parentID uint64, data []model.Folder, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFolderList, ownerID, parentID)
	return manager.cache.Set(ctx, key, data, expiration)
}

// InvalidateFolderListCache clears a cached folder listing.
func InvalidateFolderListCache(ctx context.Context, ownerID, parentID uint64) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFolderList, ownerID, parentID)
	return manager.cache.Delete(ctx, key)
}

// GetFileListFromCache reads a cached file listing.
func GetFileListFromCache(ctx context.Context, ownerID, folderID uint64) ([]model.File, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, ownerID, folderID)

	var result []model.File
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return result, true
}

// SetFileListToCache writes a cached file listing.
func SetFileListToCache(ctx context.Context, ownerID, folderID uint64, data []model.File, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, ownerID, folderID)
	return manager.cache.Set(ctx, key, data, expiration)
}

// InvalidateFileListCache clears a cached file listing.
func InvalidateFileListCache(ctx context.Context, ownerID, folderID uint64) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, ownerID, folderID)
	return manager.cache.Delete(ctx, key)
}

// GetShareFromCache reads a cached share by token.
func GetShareFromCache(ctx context.Context, token string) (*model.SharedFolder, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyShareToken, token)

	var result model.SharedFolder
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetShareToCache writes a cached share. The TTL is clamped to the share's
// remaining lifetime so the cache can never outlive the token.
func SetShareToCache(ctx context.Context, share *model.SharedFolder, expiration time.Duration) error {
	if share == nil {
		return nil
	}
	if remaining := time.Until(share.ExpiresAt); remaining < expiration {
		expiration = remaining
	}
	if expiration <= 0 {
		return nil
	}
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyShareToken, share.Token)
	return manager.cache.Set(ctx, key, share, expiration)
}

// InvalidateShareCache clears a cached share.
func InvalidateShareCache(ctx context.Context, token string) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyShareToken, token)
	return manager.cache.Delete(ctx, key)
}
