package integration

import (
	"github.com/shopspring/decimal"

	"github.com/orderbridge/backend/internal/domain/shared"
)

// Aggregate and event type names
const (
	AggregateTypeCart      = "Cart"
	EventTypeOrderImported = "OrderImported"
)

// ImportedLine is a cart line as carried by OrderImportedEvent
type ImportedLine struct {
	ProductID     int64           `json:"product_id"`
	SKU           string          `json:"sku"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	StockBypassed bool            `json:"stock_bypassed"`
}

// OrderImportedEvent is raised when a Channable order was imported into a cart.
// Downstream consumers use the reservation flags to place the order.
type OrderImportedEvent struct {
	shared.BaseDomainEvent
	StoreID         int64           `json:"store_id"`
	ChannableID     int64           `json:"channable_id"`
	ChannelName     string          `json:"channel_name"`
	Currency        string          `json:"currency"`
	LVB             bool            `json:"lvb"`
	SkipQtyCheck    bool            `json:"skip_qty_check"`
	SkipReservation bool            `json:"skip_reservation"`
	TotalQty        int             `json:"total_qty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Lines           []ImportedLine  `json:"lines"`
}

// NewOrderImportedEvent snapshots the cart into an event
func NewOrderImportedEvent(c *Cart) *OrderImportedEvent {
	lines := make([]ImportedLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, ImportedLine{
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			StockBypassed: item.StockBypassed,
		})
	}
	return &OrderImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderImported, AggregateTypeCart, c.ID),
		StoreID:         c.StoreID,
		ChannableID:     c.ChannableID,
		ChannelName:     c.ChannelName,
		Currency:        c.Currency,
		LVB:             c.LVB,
		SkipQtyCheck:    c.SkipQtyCheck,
		SkipReservation: c.SkipReservation,
		TotalQty:        c.TotalQty(),
		Subtotal:        c.Subtotal(),
		Lines:           lines,
	}
}
