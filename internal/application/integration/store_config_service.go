package integration

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
)

// StoreConfigService reads and writes per-store import settings.
// Reads go through an optional cache; a store without a stored row gets
// integration.DefaultStoreConfig.
type StoreConfigService struct {
	repo   integration.StoreConfigRepository
	cache  integration.StoreConfigCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewStoreConfigService creates a new StoreConfigService. cache may be nil.
func NewStoreConfigService(
	repo integration.StoreConfigRepository,
	cache integration.StoreConfigCache,
	ttl time.Duration,
	logger *zap.Logger,
) *StoreConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreConfigService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the settings of a store
func (s *StoreConfigService) Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error) {
	if storeID < 0 {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be negative")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, storeID)
		if err != nil {
			// A broken cache must not block imports.
			s.logger.Warn("Store config cache read failed", zap.Int64("store_id", storeID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	cfg, err := s.repo.Get(ctx, storeID)
	if errors.Is(err, integration.ErrStoreConfigNotFound) {
		defaults := integration.DefaultStoreConfig(storeID)
		cfg, err = &defaults, nil
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cfg, s.ttl); err != nil {
			s.logger.Warn("Store config cache write failed", zap.Int64("store_id", storeID), zap.Error(err))
		}
	}
	return cfg, nil
}

// Save validates and stores settings, dropping the cached copy
func (s *StoreConfigService) Save(ctx context.Context, cfg *integration.StoreConfig) error {
	if err := cfg.Validate(); err != nil {
		return shared.NewDomainError("INVALID_STORE_CONFIG", err.Error())
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cfg.StoreID); err != nil {
			s.logger.Warn("Store config cache delete failed", zap.Int64("store_id", cfg.StoreID), zap.Error(err))
		}
	}
	s.logger.Info("Store config saved", zap.Int64("store_id", cfg.StoreID))
	return nil
}

// List returns the settings of every configured store
func (s *StoreConfigService) List(ctx context.Context) ([]integration.StoreConfig, error) {
	return s.repo.List(ctx)
}

// InvalidateCache drops all cached store settings
func (s *StoreConfigService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateAll(ctx)
}
