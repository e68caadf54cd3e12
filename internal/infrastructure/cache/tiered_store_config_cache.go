package cache

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// TieredStoreConfigCache implements a two-tier caching strategy
// L1: Local in-memory cache (fast, but local to instance)
// L2: Redis cache (slower, but shared across instances)
// Writes are broadcast over Pub/Sub so other instances drop their L1 copy.
type TieredStoreConfigCache struct {
	l1          *InMemoryStoreConfigCache
	l2          *RedisStoreConfigCache
	invalidator *StoreConfigInvalidator
	l1TTL       time.Duration
	logger      *zap.Logger

	l1Hits   int64
	l2Hits   int64
	l2Misses int64
}

// NewTieredStoreConfigCache creates a new tiered store config cache. invalidator may be nil.
func NewTieredStoreConfigCache(
	l1 *InMemoryStoreConfigCache,
	l2 *RedisStoreConfigCache,
	invalidator *StoreConfigInvalidator,
	logger *zap.Logger,
) *TieredStoreConfigCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredStoreConfigCache{
		l1:          l1,
		l2:          l2,
		invalidator: invalidator,
		l1TTL:       l1.ttl,
		logger:      logger,
	}
}

// StartInvalidationSubscription listens for invalidation messages until ctx is done.
// It blocks; run it in a goroutine.
func (c *TieredStoreConfigCache) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}
	return c.invalidator.Subscribe(ctx, c.handleInvalidationMessage)
}

func (c *TieredStoreConfigCache) handleInvalidationMessage(msg invalidationMessage) {
	ctx := context.Background()

	switch msg.Action {
	case invalidateActionUpdated, invalidateActionDeleted:
		_ = c.l1.Delete(ctx, msg.StoreID)
		c.logger.Debug("Invalidated L1 store config",
			zap.String("action", msg.Action),
			zap.Int64("store_id", msg.StoreID))
	case invalidateActionDropAll:
		_ = c.l1.InvalidateAll(ctx)
	default:
		c.logger.Warn("Unknown invalidation action", zap.String("action", msg.Action))
	}
}

// Get reads L1, then L2, populating L1 on an L2 hit
func (c *TieredStoreConfigCache) Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error) {
	cfg, _ := c.l1.Get(ctx, storeID)
	if cfg != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return cfg, nil
	}

	cfg, err := c.l2.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		atomic.AddInt64(&c.l2Misses, 1)
		return nil, nil
	}

	atomic.AddInt64(&c.l2Hits, 1)
	_ = c.l1.Set(ctx, cfg, c.l1TTL)
	return cfg, nil
}

// Set writes L2 and L1
func (c *TieredStoreConfigCache) Set(ctx context.Context, cfg *integration.StoreConfig, ttl time.Duration) error {
	if cfg == nil {
		return nil
	}
	if err := c.l2.Set(ctx, cfg, ttl); err != nil {
		return err
	}
	l1TTL := c.l1TTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	return c.l1.Set(ctx, cfg, l1TTL)
}

// Delete removes the config from both tiers and notifies other instances
func (c *TieredStoreConfigCache) Delete(ctx context.Context, storeID int64) error {
	if err := c.l2.Delete(ctx, storeID); err != nil {
		return err
	}
	_ = c.l1.Delete(ctx, storeID)

	if c.invalidator != nil {
		if err := c.invalidator.PublishDelete(ctx, storeID); err != nil {
			c.logger.Warn("Failed to publish store config delete", zap.Int64("store_id", storeID), zap.Error(err))
		}
	}
	return nil
}

// InvalidateAll drops both tiers and notifies other instances
func (c *TieredStoreConfigCache) InvalidateAll(ctx context.Context) error {
	if err := c.l2.InvalidateAll(ctx); err != nil {
		return err
	}
	_ = c.l1.InvalidateAll(ctx)

	if c.invalidator != nil {
		if err := c.invalidator.PublishInvalidateAll(ctx); err != nil {
			c.logger.Warn("Failed to publish invalidate all", zap.Error(err))
		}
	}
	return nil
}

// Close stops the subscription and the L1 cleanup goroutine
func (c *TieredStoreConfigCache) Close() error {
	var lastErr error
	if c.invalidator != nil {
		if err := c.invalidator.Close(); err != nil {
			lastErr = err
		}
	}
	if err := c.l1.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

// Stats returns L1 hits, L2 hits and final misses
func (c *TieredStoreConfigCache) Stats() (l1Hits, l2Hits, misses int64) {
	return atomic.LoadInt64(&c.l1Hits), atomic.LoadInt64(&c.l2Hits), atomic.LoadInt64(&c.l2Misses)
}

var _ integration.StoreConfigCache = (*TieredStoreConfigCache)(nil)
