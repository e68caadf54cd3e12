package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Catalog ports
// ---------------------------------------------------------------------------

// ProductRepository resolves catalog products
type ProductRepository interface {
	// GetByID returns ErrProductNotFound when the id does not resolve
	GetByID(ctx context.Context, id int64) (*Product, error)
}

// StockRegistry returns the stock item of a product
type StockRegistry interface {
	// GetStockItem returns ErrStockItemNotFound when the product has no stock row
	GetStockItem(ctx context.Context, productID int64) (*StockItem, error)
}

// TaxRateRequest identifies the rate that applies to a cart line
type TaxRateRequest struct {
	TaxClassID int64
	StoreID    int64
	Shipping   Address
	Billing    Address
}

// TaxRateCalculator looks up tax rates in percent
type TaxRateCalculator interface {
	Rate(ctx context.Context, req TaxRateRequest) (decimal.Decimal, error)
}

// SurchargeLookup reads fixed product tax (weee) values
type SurchargeLookup interface {
	// Available reports whether the surcharge table exists
	Available(ctx context.Context) (bool, error)
	// Value returns the first surcharge for the product and country, zero if none
	Value(ctx context.Context, productID int64, countryCode string) (decimal.Decimal, error)
}

// ---------------------------------------------------------------------------
// Store and cart ports
// ---------------------------------------------------------------------------

// StoreConfigRepository persists per-store import settings
type StoreConfigRepository interface {
	// Get returns ErrStoreConfigNotFound when the store has no settings
	Get(ctx context.Context, storeID int64) (*StoreConfig, error)
	Save(ctx context.Context, cfg *StoreConfig) error
	List(ctx context.Context) ([]StoreConfig, error)
}

// StoreConfigCache caches store settings between imports
type StoreConfigCache interface {
	// Get returns nil, nil on a cache miss
	Get(ctx context.Context, storeID int64) (*StoreConfig, error)
	// Set stores the config; a zero ttl uses the implementation default
	Set(ctx context.Context, cfg *StoreConfig, ttl time.Duration) error
	Delete(ctx context.Context, storeID int64) error
	// InvalidateAll drops every cached store config
	InvalidateAll(ctx context.Context) error
}

// CartRepository persists carts built from imported orders
type CartRepository interface {
	// Save stores the cart and its items atomically
	Save(ctx context.Context, cart *Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	FindByChannableID(ctx context.Context, storeID, channableID int64) (*Cart, error)
}

// PayloadArchive keeps the raw order bodies received from Channable
type PayloadArchive interface {
	Archive(ctx context.Context, storeID, channableID int64, body []byte) error
}

// PayloadLocator hands out temporary download links for archived payloads.
// An empty URL means the payload was not archived.
type PayloadLocator interface {
	DownloadURL(ctx context.Context, storeID, channableID int64) (string, time.Time, error)
}
