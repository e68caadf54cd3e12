package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
)

// logger for model conversion errors
var modelLogger = zap.L().Named("cart.models")

// CartModel is the persistence model for the Cart aggregate
type CartModel struct {
	BaseModel
	StoreID         int64           `gorm:"not null;uniqueIndex:idx_carts_store_channable"`
	ChannableID     int64           `gorm:"not null;uniqueIndex:idx_carts_store_channable"`
	ChannelName     string          `gorm:"type:varchar(64)"`
	Currency        string          `gorm:"type:char(3)"`
	CustomerEmail   string          `gorm:"type:varchar(255);index"`
	CustomerJSON    string          `gorm:"column:customer;type:jsonb"`
	BillingJSON     string          `gorm:"column:billing_address;type:jsonb"`
	ShippingJSON    string          `gorm:"column:shipping_address;type:jsonb"`
	ItemsQty        int             `gorm:"not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SkipQtyCheck    bool            `gorm:"not null"`
	SkipReservation bool            `gorm:"not null"`
	LVB             bool            `gorm:"column:lvb;not null"`
	Items           []CartItemModel `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the persistence model for a cart line
type CartItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     int64           `gorm:"not null"`
	SKU           string          `gorm:"column:sku;type:varchar(64)"`
	Name          string          `gorm:"type:varchar(255)"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity      int             `gorm:"not null"`
	RowTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockBypassed bool            `gorm:"not null"`
	Position      int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// CartModelFromDomain creates a model, items included, from a domain Cart
func CartModelFromDomain(cart *integration.Cart) *CartModel {
	m := &CartModel{
		StoreID:         cart.StoreID,
		ChannableID:     cart.ChannableID,
		ChannelName:     cart.ChannelName,
		Currency:        cart.Currency,
		CustomerEmail:   cart.Customer.Email,
		CustomerJSON:    marshalJSON(cart.Customer),
		BillingJSON:     marshalJSON(cart.Billing),
		ShippingJSON:    marshalJSON(cart.Shipping),
		ItemsQty:        cart.TotalQty(),
		Subtotal:        cart.Subtotal(),
		SkipQtyCheck:    cart.SkipQtyCheck,
		SkipReservation: cart.SkipReservation,
		LVB:             cart.LVB,
		Items:           make([]CartItemModel, 0, len(cart.Items)),
	}
	m.setEntity(cart.BaseEntity)

	for i, item := range cart.Items {
		m.Items = append(m.Items, CartItemModel{
			ID:            uuid.New(),
			CartID:        cart.ID,
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			Name:          item.Name,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			RowTotal:      item.RowTotal(),
			StockBypassed: item.StockBypassed,
			Position:      i,
		})
	}
	return m
}

// ToDomain converts the model to a domain Cart. Items must be preloaded in position order.
func (m *CartModel) ToDomain() *integration.Cart {
	cart := &integration.Cart{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.entity()},
		StoreID:           m.StoreID,
		ChannableID:       m.ChannableID,
		ChannelName:       m.ChannelName,
		Currency:          m.Currency,
		SkipQtyCheck:      m.SkipQtyCheck,
		SkipReservation:   m.SkipReservation,
		LVB:               m.LVB,
		Items:             make([]integration.CartItem, 0, len(m.Items)),
	}
	unmarshalJSON(m.CustomerJSON, &cart.Customer, m.ID)
	unmarshalJSON(m.BillingJSON, &cart.Billing, m.ID)
	unmarshalJSON(m.ShippingJSON, &cart.Shipping, m.ID)

	for _, item := range m.Items {
		cart.Items = append(cart.Items, integration.CartItem{
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			Name:          item.Name,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			StockBypassed: item.StockBypassed,
		})
	}
	return cart
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func unmarshalJSON(raw string, dst any, cartID uuid.UUID) {
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		modelLogger.Warn("failed to parse cart JSON column",
			zap.String("cart_id", cartID.String()),
			zap.String("raw_json", raw),
			zap.Error(err))
	}
}
