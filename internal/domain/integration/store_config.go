package integration

import "strings"

// StoreConfig carries the per-store switches that drive an import
type StoreConfig struct {
	StoreID int64
	// Enabled turns order import on for the store
	Enabled bool
	// PriceIncludesTax is true when catalog prices are entered including tax
	PriceIncludesTax bool
	// DeductFPTTax subtracts the fixed product tax (weee) from reported prices
	DeductFPTTax bool
	// DisableStockCheckOnImport lets every order line through regardless of stock
	DisableStockCheckOnImport bool
	// BackordersEnabled skips the quantity check on the cart session
	BackordersEnabled bool
	// LVBDisableStockMovement keeps LVB orders from touching stock
	LVBDisableStockMovement bool
	// DefaultCountry is used when an order has no billing country
	DefaultCountry string
}

// DefaultStoreConfig returns the configuration used for stores without a stored row
func DefaultStoreConfig(storeID int64) StoreConfig {
	return StoreConfig{
		StoreID:          storeID,
		Enabled:          true,
		PriceIncludesTax: true,
		DefaultCountry:   "NL",
	}
}

// Validate checks the configuration values
func (c StoreConfig) Validate() error {
	if c.StoreID < 0 {
		return ErrInvalidStoreID
	}
	if c.DefaultCountry != "" && len(strings.TrimSpace(c.DefaultCountry)) != 2 {
		return ErrInvalidCountryCode
	}
	return nil
}

// SessionFlags returns skipQtyCheck and skipReservation for an order
func (c StoreConfig) SessionFlags(lvb bool) (skipQtyCheck, skipReservation bool) {
	lvbNoStock := lvb && c.LVBDisableStockMovement
	return c.BackordersEnabled || lvbNoStock, lvbNoStock
}

// BypassStockCheck reports whether stock validation is skipped for an order
func (c StoreConfig) BypassStockCheck(lvb bool) bool {
	return c.DisableStockCheckOnImport || lvb
}
