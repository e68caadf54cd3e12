package integration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
)

// OrderImportedLogger writes every imported order to the log. It is the
// event sink when no message broker is configured.
type OrderImportedLogger struct {
	logger *zap.Logger
}

// NewOrderImportedLogger creates a new OrderImportedLogger
func NewOrderImportedLogger(logger *zap.Logger) *OrderImportedLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderImportedLogger{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (l *OrderImportedLogger) EventTypes() []string {
	return []string{integration.EventTypeOrderImported}
}

// Handle logs the imported order
func (l *OrderImportedLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	imported, ok := event.(*integration.OrderImportedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
	}

	l.logger.Info("Order imported",
		zap.String("event_id", imported.EventID().String()),
		zap.String("cart_id", imported.AggregateID().String()),
		zap.Int64("store_id", imported.StoreID),
		zap.Int64("channable_id", imported.ChannableID),
		zap.String("channel", imported.ChannelName),
		zap.Bool("lvb", imported.LVB),
		zap.Int("total_qty", imported.TotalQty),
		zap.String("subtotal", imported.Subtotal.StringFixed(4)),
		zap.String("currency", imported.Currency),
	)
	return nil
}

var _ shared.EventHandler = (*OrderImportedLogger)(nil)
