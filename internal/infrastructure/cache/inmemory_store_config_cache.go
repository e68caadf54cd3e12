package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
	defaultL1TTL           = 30 * time.Second
)

// InMemoryStoreConfigCache implements StoreConfigCache using in-memory storage.
// On its own it serves single-instance deployments; the tiered cache uses it as L1.
type InMemoryStoreConfigCache struct {
	configs sync.Map // map[int64]*cacheEntry[integration.StoreConfig]
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryStoreConfigCacheOption is a functional option for configuring the cache
type InMemoryStoreConfigCacheOption func(*InMemoryStoreConfigCache)

// WithInMemoryTTL sets the TTL used when Set is called with a zero ttl
func WithInMemoryTTL(ttl time.Duration) InMemoryStoreConfigCacheOption {
	return func(c *InMemoryStoreConfigCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryStoreConfigCacheOption {
	return func(c *InMemoryStoreConfigCache) {
		c.logger = logger
	}
}

// NewInMemoryStoreConfigCache creates a new in-memory store config cache
func NewInMemoryStoreConfigCache(opts ...InMemoryStoreConfigCacheOption) *InMemoryStoreConfigCache {
	cache := &InMemoryStoreConfigCache{
		ttl:    defaultL1TTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get returns a copy of the cached config, or nil on a miss
func (c *InMemoryStoreConfigCache) Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error) {
	if value, ok := c.configs.Load(storeID); ok {
		e := value.(*cacheEntry[integration.StoreConfig])
		if !e.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			cfg := e.value
			return &cfg, nil
		}
		c.configs.Delete(storeID)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for store config", zap.Int64("store_id", storeID))
	return nil, nil
}

// Set stores a copy of cfg
func (c *InMemoryStoreConfigCache) Set(ctx context.Context, cfg *integration.StoreConfig, ttl time.Duration) error {
	if cfg == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.configs.Store(cfg.StoreID, &cacheEntry[integration.StoreConfig]{
		value:     *cfg,
		expiresAt: time.Now().Add(ttl),
	})
	c.logger.Debug("Cached store config in L1",
		zap.Int64("store_id", cfg.StoreID),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a store config from cache
func (c *InMemoryStoreConfigCache) Delete(ctx context.Context, storeID int64) error {
	c.configs.Delete(storeID)
	return nil
}

// InvalidateAll removes all cached store configs
func (c *InMemoryStoreConfigCache) InvalidateAll(ctx context.Context) error {
	c.configs.Range(func(key, _ any) bool {
		c.configs.Delete(key)
		return true
	})
	c.logger.Info("Invalidated all L1 store config cache")
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryStoreConfigCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryStoreConfigCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries in the cache
func (c *InMemoryStoreConfigCache) Count() int {
	n := 0
	c.configs.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *InMemoryStoreConfigCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup", zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

func (c *InMemoryStoreConfigCache) doCleanup() {
	removed := 0
	c.configs.Range(func(key, value any) bool {
		if value.(*cacheEntry[integration.StoreConfig]).isExpired() {
			c.configs.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Cleaned up expired L1 cache entries", zap.Int("removed", removed))
	}
}

var _ integration.StoreConfigCache = (*InMemoryStoreConfigCache)(nil)
