package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderbridge/backend/internal/infrastructure/config"
)

// Constants for Redis connections
const (
	defaultPingTimeout   = 5 * time.Second
	defaultScanBatchSize = 100
	keyNamespace         = "orderbridge:"
)

// ErrRedisDisabled is returned when Redis is switched off in configuration
var ErrRedisDisabled = errors.New("cache: redis disabled")

// NewRedisClient connects to Redis and verifies the connection with a PING
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, ErrRedisDisabled
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
