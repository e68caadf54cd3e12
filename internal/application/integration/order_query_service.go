package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
)

// CartLineResponse is one line of an imported cart
type CartLineResponse struct {
	ProductID     int64  `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	UnitPrice     string `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	RowTotal      string `json:"row_total"`
	StockBypassed bool   `json:"stock_bypassed"`
}

// ImportedOrderResponse describes an imported order and the cart built from it
type ImportedOrderResponse struct {
	CartID          uuid.UUID          `json:"cart_id"`
	StoreID         int64              `json:"store_id"`
	ChannableID     int64              `json:"channable_id"`
	ChannelName     string             `json:"channel_name"`
	Currency        string             `json:"currency"`
	CustomerEmail   string             `json:"customer_email,omitempty"`
	BillingCountry  string             `json:"billing_country,omitempty"`
	ShippingCountry string             `json:"shipping_country,omitempty"`
	LVB             bool               `json:"lvb"`
	SkipQtyCheck    bool               `json:"skip_qty_check"`
	SkipReservation bool               `json:"skip_reservation"`
	TotalQty        int                `json:"total_qty"`
	Subtotal        string             `json:"subtotal"`
	Lines           []CartLineResponse `json:"lines"`
	CreatedAt       time.Time          `json:"created_at"`
	// PayloadURL is a temporary link to the archived Channable body
	PayloadURL          string     `json:"payload_url,omitempty"`
	PayloadURLExpiresAt *time.Time `json:"payload_url_expires_at,omitempty"`
}

// OrderQueryService looks up orders that were already imported
type OrderQueryService struct {
	carts   integration.CartRepository
	locator integration.PayloadLocator
	logger  *zap.Logger
}

// NewOrderQueryService creates a new OrderQueryService. locator may be nil.
func NewOrderQueryService(carts integration.CartRepository, locator integration.PayloadLocator, logger *zap.Logger) *OrderQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderQueryService{carts: carts, locator: locator, logger: logger}
}

// GetImportedOrder returns the cart imported for a Channable order of a store
func (s *OrderQueryService) GetImportedOrder(ctx context.Context, storeID, channableID int64) (*ImportedOrderResponse, error) {
	if storeID < 0 || channableID <= 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Store ID and Channable order ID are required")
	}

	cart, err := s.carts.FindByChannableID(ctx, storeID, channableID)
	if errors.Is(err, integration.ErrCartNotFound) {
		return nil, shared.NewDomainError("NOT_FOUND",
			fmt.Sprintf("Channable order %d was not imported for store %d", channableID, storeID))
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	resp := toImportedOrderResponse(cart)
	if s.locator != nil {
		url, expiresAt, err := s.locator.DownloadURL(ctx, storeID, channableID)
		if err != nil {
			// The cart is still useful without its archived body.
			s.logger.Warn("Failed to presign payload URL",
				zap.Int64("store_id", storeID),
				zap.Int64("channable_id", channableID),
				zap.Error(err))
		} else if url != "" {
			resp.PayloadURL = url
			resp.PayloadURLExpiresAt = &expiresAt
		}
	}
	return resp, nil
}

func toImportedOrderResponse(cart *integration.Cart) *ImportedOrderResponse {
	lines := make([]CartLineResponse, len(cart.Items))
	for i, item := range cart.Items {
		lines[i] = CartLineResponse{
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			Name:          item.Name,
			UnitPrice:     item.UnitPrice.StringFixed(4),
			Quantity:      item.Quantity,
			RowTotal:      item.RowTotal().StringFixed(4),
			StockBypassed: item.StockBypassed,
		}
	}
	return &ImportedOrderResponse{
		CartID:          cart.ID,
		StoreID:         cart.StoreID,
		ChannableID:     cart.ChannableID,
		ChannelName:     cart.ChannelName,
		Currency:        cart.Currency,
		CustomerEmail:   cart.Customer.Email,
		BillingCountry:  cart.Billing.CountryCode,
		ShippingCountry: cart.Shipping.CountryCode,
		LVB:             cart.LVB,
		SkipQtyCheck:    cart.SkipQtyCheck,
		SkipReservation: cart.SkipReservation,
		TotalQty:        cart.TotalQty(),
		Subtotal:        cart.Subtotal().StringFixed(4),
		Lines:           lines,
		CreatedAt:       cart.CreatedAt,
	}
}
