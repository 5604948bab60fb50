package license

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no license snapshot has been cached yet.
var ErrCacheMiss = errors.New("license cache miss")

const redisKey = "license:info"

// Cache holds the last-known license state so requests inside the freshness
// window never touch the store.
type Cache interface {
	Get(ctx context.Context) (*domain.LicenseInfo, error)
	Set(ctx context.Context, info *domain.LicenseInfo) error
}

// RedisCache shares the license snapshot across replicas.
type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(redisClient *redis.Client) *RedisCache {
	return &RedisCache{redis: redisClient}
}

func (c *RedisCache) Get(ctx context.Context) (*domain.LicenseInfo, error) {
	data, err := c.redis.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read license cache: %w", err)
	}

	var info domain.LicenseInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode license cache: %w", err)
	}

	return &info, nil
}

func (c *RedisCache) Set(ctx context.Context, info *domain.LicenseInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode license cache: %w", err)
	}

	// No TTL: a stale snapshot is still served when revalidation fails.
	if err := c.redis.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write license cache: %w", err)
	}

	return nil
}

// MemoryCache is a process-local cache used in tests and single-replica
// deployments without Redis.
type MemoryCache struct {
	mu   sync.RWMutex
	info *domain.LicenseInfo
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(ctx context.Context) (*domain.LicenseInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.info == nil {
		return nil, ErrCacheMiss
	}
	copied := *c.info
	return &copied, nil
}

func (c *MemoryCache) Set(ctx context.Context, info *domain.LicenseInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *info
	c.info = &copied
	return nil
}
