package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
	"github.com/orderbridge/backend/internal/infrastructure/config"
)

// StoreConfigCache is a store config cache that holds resources until closed
type StoreConfigCache interface {
	integration.StoreConfigCache
	Close() error
}

// Factory creates the idempotency store and store config cache.
// Both share one Redis client; without Redis they fall back to in-memory implementations.
type Factory struct {
	redisConfig           config.RedisConfig
	storeConfigTTL        time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool

	once      sync.Once
	client    *redis.Client
	clientErr error
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory implementations
// when Redis is enabled but unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithStoreConfigTTL sets the default TTL of cached store configs in Redis
func WithStoreConfigTTL(ttl time.Duration) FactoryOption {
	return func(f *Factory) {
		f.storeConfigTTL = ttl
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// redisClient connects once and returns the shared client
func (f *Factory) redisClient() (*redis.Client, error) {
	f.once.Do(func() {
		f.client, f.clientErr = NewRedisClient(f.redisConfig)
	})
	return f.client, f.clientErr
}

// fallback decides whether an unavailable Redis may be replaced by memory
func (f *Factory) fallback(component string, err error) error {
	if errors.Is(err, ErrRedisDisabled) {
		f.logger.Info("Redis disabled, using in-memory "+component)
		return nil
	}
	if !f.allowInMemoryFallback {
		return fmt.Errorf("redis required for %s but unavailable: %w", component, err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory "+component+". "+
		"State is not shared between instances.",
		zap.Error(err),
	)
	return nil
}

// CreateIdempotencyStore returns a Redis store, or an in-memory one when Redis is unavailable
func (f *Factory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	client, err := f.redisClient()
	if err == nil {
		f.logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	}
	if err := f.fallback("idempotency store", err); err != nil {
		return nil, err
	}
	return NewInMemoryIdempotencyStore(), nil
}

// CreateStoreConfigCache returns a tiered L1/L2 cache, or an in-memory one when Redis
// is unavailable. The tiered cache listens for invalidations until ctx is done.
func (f *Factory) CreateStoreConfigCache(ctx context.Context) (StoreConfigCache, error) {
	l1 := NewInMemoryStoreConfigCache(WithInMemoryLogger(f.logger.Named("store_config_l1")))

	client, err := f.redisClient()
	if err != nil {
		if err := f.fallback("store config cache", err); err != nil {
			_ = l1.Close()
			return nil, err
		}
		if f.storeConfigTTL > 0 {
			l1.ttl = f.storeConfigTTL
		}
		return l1, nil
	}

	l2 := NewRedisStoreConfigCache(client, f.storeConfigTTL, f.logger.Named("store_config_l2"))
	invalidator := NewStoreConfigInvalidator(client, "", f.logger.Named("store_config_invalidation"))
	tiered := NewTieredStoreConfigCache(l1, l2, invalidator, f.logger)

	go func() {
		if err := tiered.StartInvalidationSubscription(ctx); err != nil && !errors.Is(err, context.Canceled) {
			f.logger.Error("Store config invalidation subscription ended", zap.Error(err))
		}
	}()

	f.logger.Info("Using tiered Redis store config cache")
	return tiered, nil
}

// Ping checks the shared Redis client. Without an open client there is
// nothing to check.
func (f *Factory) Ping(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	return f.client.Ping(ctx).Err()
}

// Close closes the shared Redis client, if one was opened
func (f *Factory) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
