package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
)

const (
	storeConfigKeyPrefix = keyNamespace + "store_config:"
	defaultL2TTL         = 10 * time.Minute
)

// RedisStoreConfigCache implements StoreConfigCache using Redis
type RedisStoreConfigCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// cachedStoreConfig is the JSON document stored per store
type cachedStoreConfig struct {
	StoreID                   int64  `json:"store_id"`
	Enabled                   bool   `json:"enabled"`
	PriceIncludesTax          bool   `json:"price_includes_tax"`
	DeductFPTTax              bool   `json:"deduct_fpt_tax"`
	DisableStockCheckOnImport bool   `json:"disable_stock_check_on_import"`
	BackordersEnabled         bool   `json:"backorders_enabled"`
	LVBDisableStockMovement   bool   `json:"lvb_disable_stock_movement"`
	DefaultCountry            string `json:"default_country"`
}

func newCachedStoreConfig(cfg *integration.StoreConfig) cachedStoreConfig {
	return cachedStoreConfig(*cfg)
}

func (c cachedStoreConfig) toDomain() *integration.StoreConfig {
	cfg := integration.StoreConfig(c)
	return &cfg
}

// NewRedisStoreConfigCache creates a cache on a shared client.
// The caller keeps ownership of the client.
func NewRedisStoreConfigCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStoreConfigCache {
	if ttl <= 0 {
		ttl = defaultL2TTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStoreConfigCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func storeConfigKey(storeID int64) string {
	return fmt.Sprintf("%s%d", storeConfigKeyPrefix, storeID)
}

// Get retrieves a store config from Redis, nil on a miss
func (c *RedisStoreConfigCache) Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error) {
	key := storeConfigKey(storeID)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store config from cache: %w", err)
	}

	var cached cachedStoreConfig
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Error("Failed to unmarshal store config",
			zap.Int64("store_id", storeID),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal store config: %w", err)
	}
	return cached.toDomain(), nil
}

// Set stores a store config in Redis
func (c *RedisStoreConfigCache) Set(ctx context.Context, cfg *integration.StoreConfig, ttl time.Duration) error {
	if cfg == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	data, err := json.Marshal(newCachedStoreConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal store config: %w", err)
	}
	if err := c.client.Set(ctx, storeConfigKey(cfg.StoreID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set store config in cache: %w", err)
	}
	return nil
}

// Delete removes a store config from Redis
func (c *RedisStoreConfigCache) Delete(ctx context.Context, storeID int64) error {
	if err := c.client.Del(ctx, storeConfigKey(storeID)).Err(); err != nil {
		return fmt.Errorf("failed to delete store config from cache: %w", err)
	}
	return nil
}

// InvalidateAll removes every cached store config.
// SCAN is used so Redis is never blocked by KEYS.
func (c *RedisStoreConfigCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, storeConfigKeyPrefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated all store config cache", zap.Int64("deleted_count", deletedCount))
	return nil
}

var _ integration.StoreConfigCache = (*RedisStoreConfigCache)(nil)
