package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for invalidator configuration
const (
	defaultCloseTimeout      = 5 * time.Second
	defaultInvalidateChannel = keyNamespace + "store_config:invalidate"
	invalidateActionUpdated  = "updated"
	invalidateActionDeleted  = "deleted"
	invalidateActionDropAll  = "invalidate_all"
)

// invalidationMessage is broadcast to every instance when a store config changes
type invalidationMessage struct {
	Action    string `json:"action"`
	StoreID   int64  `json:"store_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// StoreConfigInvalidator broadcasts store config changes over Redis Pub/Sub
// so every instance drops its local copy
type StoreConfigInvalidator struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// NewStoreConfigInvalidator creates an invalidator on a shared client
func NewStoreConfigInvalidator(client *redis.Client, channel string, logger *zap.Logger) *StoreConfigInvalidator {
	if channel == "" {
		channel = defaultInvalidateChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreConfigInvalidator{
		client:  client,
		channel: channel,
		logger:  logger,
		doneCh:  make(chan struct{}),
	}
}

func (i *StoreConfigInvalidator) publish(ctx context.Context, msg invalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	i.logger.Debug("Published store config invalidation",
		zap.String("action", msg.Action),
		zap.Int64("store_id", msg.StoreID))
	return nil
}

// PublishUpdate announces a changed store config
func (i *StoreConfigInvalidator) PublishUpdate(ctx context.Context, storeID int64) error {
	return i.publish(ctx, invalidationMessage{Action: invalidateActionUpdated, StoreID: storeID})
}

// PublishDelete announces a removed store config
func (i *StoreConfigInvalidator) PublishDelete(ctx context.Context, storeID int64) error {
	return i.publish(ctx, invalidationMessage{Action: invalidateActionDeleted, StoreID: storeID})
}

// PublishInvalidateAll tells every instance to drop all store configs
func (i *StoreConfigInvalidator) PublishInvalidateAll(ctx context.Context) error {
	return i.publish(ctx, invalidationMessage{Action: invalidateActionDropAll})
}

// Subscribe blocks and invokes callback for each received message until ctx is done
func (i *StoreConfigInvalidator) Subscribe(ctx context.Context, callback func(msg invalidationMessage)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		i.markDone()
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	i.logger.Info("Subscribed to store config invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("Store config invalidation subscription stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Store config invalidation channel closed")
				return nil
			}

			var update invalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				i.logger.Error("Failed to unmarshal invalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			i.dispatch(callback, update)
		}
	}
}

func (i *StoreConfigInvalidator) dispatch(callback func(msg invalidationMessage), msg invalidationMessage) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Panic in invalidation callback", zap.Any("panic", r))
		}
	}()
	callback(msg)
}

func (i *StoreConfigInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close stops a running subscription
func (i *StoreConfigInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timeout waiting for subscription to stop")
		}
	}
	return nil
}
