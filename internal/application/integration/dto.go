package integration

import (
	"github.com/google/uuid"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Order import DTOs
// ---------------------------------------------------------------------------

// ImportOrderRequest is an order pushed by Channable, ready to be imported
type ImportOrderRequest struct {
	Payload integration.OrderPayload
	// RawBody is archived as received when payload archiving is enabled
	RawBody []byte
	// ForceLVB treats the order as fulfilled by the marketplace regardless of its status
	ForceLVB bool
}

// ImportOrderResult describes the cart an order was imported into
type ImportOrderResult struct {
	CartID          uuid.UUID `json:"cart_id"`
	StoreID         int64     `json:"store_id"`
	ChannableID     int64     `json:"channable_id"`
	TotalQty        int       `json:"total_qty"`
	ItemCount       int       `json:"item_count"`
	Subtotal        string    `json:"subtotal"`
	LVB             bool      `json:"lvb"`
	SkipQtyCheck    bool      `json:"skip_qty_check"`
	SkipReservation bool      `json:"skip_reservation"`
}

func toImportOrderResult(cart *integration.Cart) *ImportOrderResult {
	return &ImportOrderResult{
		CartID:          cart.ID,
		StoreID:         cart.StoreID,
		ChannableID:     cart.ChannableID,
		TotalQty:        cart.TotalQty(),
		ItemCount:       cart.ItemCount(),
		Subtotal:        cart.Subtotal().StringFixed(4),
		LVB:             cart.LVB,
		SkipQtyCheck:    cart.SkipQtyCheck,
		SkipReservation: cart.SkipReservation,
	}
}

// ---------------------------------------------------------------------------
// Store config DTOs
// ---------------------------------------------------------------------------

// StoreConfigResponse represents store import settings in API responses
type StoreConfigResponse struct {
	StoreID                   int64  `json:"store_id"`
	Enabled                   bool   `json:"enabled"`
	PriceIncludesTax          bool   `json:"price_includes_tax"`
	DeductFPTTax              bool   `json:"deduct_fpt_tax"`
	DisableStockCheckOnImport bool   `json:"disable_stock_check_on_import"`
	BackordersEnabled         bool   `json:"backorders_enabled"`
	LVBDisableStockMovement   bool   `json:"lvb_disable_stock_movement"`
	DefaultCountry            string `json:"default_country"`
}

// ToStoreConfigResponse converts a domain StoreConfig to its response form
func ToStoreConfigResponse(cfg *integration.StoreConfig) StoreConfigResponse {
	return StoreConfigResponse{
		StoreID:                   cfg.StoreID,
		Enabled:                   cfg.Enabled,
		PriceIncludesTax:          cfg.PriceIncludesTax,
		DeductFPTTax:              cfg.DeductFPTTax,
		DisableStockCheckOnImport: cfg.DisableStockCheckOnImport,
		BackordersEnabled:         cfg.BackordersEnabled,
		LVBDisableStockMovement:   cfg.LVBDisableStockMovement,
		DefaultCountry:            cfg.DefaultCountry,
	}
}

// ConfigSaveEvent is emitted when an admin config section was saved
type ConfigSaveEvent struct {
	Section string
	// StoreID is zero for the default scope
	StoreID int64
}
