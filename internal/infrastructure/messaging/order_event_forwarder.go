package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
)

// DefaultRoutingKey is used when no routing key is configured
const DefaultRoutingKey = "channable.order.imported"

// OrderEventForwarder publishes OrderImported events to the broker
type OrderEventForwarder struct {
	publisher  MessagePublisher
	routingKey string
	logger     *zap.Logger
}

// NewOrderEventForwarder creates a forwarder; an empty routingKey uses DefaultRoutingKey
func NewOrderEventForwarder(publisher MessagePublisher, routingKey string, logger *zap.Logger) *OrderEventForwarder {
	if routingKey == "" {
		routingKey = DefaultRoutingKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderEventForwarder{
		publisher:  publisher,
		routingKey: routingKey,
		logger:     logger,
	}
}

// EventTypes returns the event types forwarded
func (f *OrderEventForwarder) EventTypes() []string {
	return []string{integration.EventTypeOrderImported}
}

// Handle publishes the event as JSON
func (f *OrderEventForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	imported, ok := event.(*integration.OrderImportedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
	}

	body, err := json.Marshal(imported)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}

	msg := Message{
		ID:        imported.EventID().String(),
		Type:      imported.EventType(),
		Timestamp: imported.OccurredAt(),
		Headers: map[string]any{
			"store_id":     imported.StoreID,
			"channable_id": imported.ChannableID,
			"lvb":          imported.LVB,
		},
		Body: body,
	}
	if err := f.publisher.Publish(ctx, f.routingKey, msg); err != nil {
		return err
	}

	f.logger.Debug("order event forwarded",
		zap.String("event_id", msg.ID),
		zap.Int64("store_id", imported.StoreID),
		zap.Int64("channable_id", imported.ChannableID),
	)
	return nil
}

var _ shared.EventHandler = (*OrderEventForwarder)(nil)
