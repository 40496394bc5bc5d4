package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheHelper provides common caching operations for repositories
type CacheHelper struct {
	client *redis.Client
	prefix string
}

// NewCacheHelper creates a new cache helper instance
func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{
		client: client,
		prefix: prefix,
	}
}

// CacheConfig defines cache configuration for different data types
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

// SchoolCacheConfig covers the school list. Entries are versioned, so the TTL only bounds memory.
var SchoolCacheConfig = CacheConfig{
	TTL:    5 * time.Minute,
	Prefix: "school:",
}

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache not found")
)

// Enabled reports whether a redis client is attached
func (c *CacheHelper) Enabled() bool {
	return c.client != nil
}

// GetCacheKey generates a cache key with prefix
func (c *CacheHelper) GetCacheKey(key string) string {
	return fmt.Sprintf("%s%s", c.prefix, key)
}

// Get retrieves and unmarshals data from cache
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.GetCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set marshals and stores data in cache
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Graceful degradation when cache not available
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	return c.client.Set(ctx, c.GetCacheKey(key), data, ttl).Err()
}

// GetString retrieves string data from cache
func (c *CacheHelper) GetString(ctx context.Context, key string) (string, error) {
	if c.client == nil {
		return "", ErrCacheNotAvailable
	}

	result, err := c.client.Get(ctx, c.GetCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheNotFound
		}
		return "", fmt.Errorf("cache get string error: %w", err)
	}

	return result, nil
}

// SetStringNX stores value only if the key does not exist yet
func (c *CacheHelper) SetStringNX(ctx context.Context, key, value string) error {
	if c.client == nil {
		return nil
	}
	return c.client.SetNX(ctx, c.GetCacheKey(key), value, 0).Err()
}

// Incr atomically increments an integer key
func (c *CacheHelper) Incr(ctx context.Context, key string) (int64, error) {
	if c.client == nil {
		return 0, ErrCacheNotAvailable
	}

	n, err := c.client.Incr(ctx, c.GetCacheKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("cache incr error: %w", err)
	}
	return n, nil
}

// Delete removes data from cache using pipeline for multiple keys
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.GetCacheKey(key)
	}

	if len(cacheKeys) > 1 {
		pipe := c.client.Pipeline()
		pipe.Del(ctx, cacheKeys...)
		_, err := pipe.Exec(ctx)
		return err
	}

	return c.client.Del(ctx, cacheKeys...).Err()
}

// InvalidatePattern removes all keys matching a pattern using SCAN instead of KEYS
func (c *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}

	fullPattern := c.GetCacheKey(pattern)
	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error
		scanKeys, cursor, err = c.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan pattern error: %w", err)
		}
		keys = append(keys, scanKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	const batchSize = 100
	for i := 0; i < len(keys); i += batchSize {
		end := min(i+batchSize, len(keys))
		pipe.Del(ctx, keys[i:end]...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache pipeline delete error: %w", err)
	}

	return nil
}

// CacheOrExecute implements the cache-aside pattern. Cache failures never fail the call.
// The fill is synchronous so a caller that invalidates afterwards cannot be overtaken by it.
func (c *CacheHelper) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetchFunc func() (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheNotAvailable) {
		slog.WarnContext(ctx, "Cache get error, proceeding to fetch", "error", err, "key", key)
	}

	value, err := fetchFunc()
	if err != nil {
		return err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		slog.WarnContext(ctx, "Cache set error", "error", err, "key", key)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal result error: %w", err)
	}

	return json.Unmarshal(data, dest)
}

// CacheManager manages the cache helpers used by repositories
type CacheManager struct {
	School *CacheHelper

	// listFailures counts version bumps that never reached redis.
	// listSynced is the failure count observed before the last successful bump.
	// While they differ the list snapshot cannot be trusted.
	listFailures atomic.Uint64
	listSynced   atomic.Uint64
}

// NewCacheManager creates cache manager with all cache helpers. A nil client disables caching.
func NewCacheManager(client *redis.Client) *CacheManager {
	if client == nil {
		return &CacheManager{
			School: NewCacheHelper(nil, ""),
		}
	}

	return &CacheManager{
		School: NewCacheHelper(client, SchoolCacheConfig.Prefix),
	}
}

const schoolListVersionKey = "list:version"

// SchoolListKey returns the key of the list snapshot for the current version.
// A missing version counter is seeded with a fresh value so no older snapshot is reused.
// After a failed invalidation the version is bumped first; if that fails too the caller
// gets an error and must read from the database.
func (cm *CacheManager) SchoolListKey(ctx context.Context) (string, error) {
	if cm.listStale() {
		if err := cm.bumpSchoolListVersion(ctx); err != nil {
			return "", fmt.Errorf("school list cache is stale: %w", err)
		}
	}

	version, err := cm.School.GetString(ctx, schoolListVersionKey)
	if errors.Is(err, ErrCacheNotFound) {
		seed := strconv.FormatInt(time.Now().UnixNano(), 10)
		if err := cm.School.SetStringNX(ctx, schoolListVersionKey, seed); err != nil {
			return "", fmt.Errorf("cache seed version error: %w", err)
		}
		version, err = cm.School.GetString(ctx, schoolListVersionKey)
	}
	if err != nil {
		return "", err
	}
	return "snapshot:" + version, nil
}

// InvalidateSchoolList moves readers to a new, empty list snapshot.
// On failure the version key is dropped when possible, and this manager stops
// serving snapshots until a later bump succeeds.
func (cm *CacheManager) InvalidateSchoolList(ctx context.Context) error {
	if !cm.School.Enabled() {
		return nil
	}
	err := cm.bumpSchoolListVersion(ctx)
	if err != nil {
		if delErr := cm.School.Delete(ctx, schoolListVersionKey); delErr != nil {
			slog.WarnContext(ctx, "Failed to drop school list version", "error", delErr)
		}
	}
	return err
}

func (cm *CacheManager) bumpSchoolListVersion(ctx context.Context) error {
	seen := cm.listFailures.Load()
	if _, err := cm.School.Incr(ctx, schoolListVersionKey); err != nil {
		cm.listFailures.Add(1)
		return err
	}
	cm.listSynced.Store(seen)
	return nil
}

func (cm *CacheManager) listStale() bool {
	return cm.listFailures.Load() != cm.listSynced.Load()
}

// HealthCheck verifies cache connectivity
func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if cm.School.client == nil {
		return ErrCacheNotAvailable
	}

	if err := cm.School.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}

	return nil
}
