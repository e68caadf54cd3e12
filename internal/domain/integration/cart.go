package integration

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orderbridge/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// CartItem
// ---------------------------------------------------------------------------

// CartItem is a reconciled order line: product, net unit price and quantity
type CartItem struct {
	ProductID int64
	SKU       string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	// StockBypassed records that stock validation was skipped for this line
	StockBypassed bool
}

// RowTotal returns unit price times quantity
func (i CartItem) RowTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ---------------------------------------------------------------------------
// Cart Aggregate
// ---------------------------------------------------------------------------

// Cart is the quote an imported order is assembled in
type Cart struct {
	shared.BaseAggregateRoot
	StoreID     int64
	ChannableID int64
	ChannelName string
	Currency    string
	Customer    Customer
	Billing     Address
	Shipping    Address
	Items       []CartItem
	// SkipQtyCheck tells downstream reservation to skip the quantity check
	SkipQtyCheck bool
	// SkipReservation tells downstream reservation to not reserve stock
	SkipReservation bool
	// LVB marks carts created from orders fulfilled by the marketplace
	LVB bool
}

// NewCart creates an empty cart for an order
func NewCart(storeID, channableID int64) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		ChannableID:       channableID,
		Items:             make([]CartItem, 0),
	}
}

// SetSessionFlags stores the reservation flags for the import session
func (c *Cart) SetSessionFlags(skipQtyCheck, skipReservation bool) {
	c.SkipQtyCheck = skipQtyCheck
	c.SkipReservation = skipReservation
}

// AddProduct validates salability and adds qty units of product at unitPrice.
// Lines for the same product and price are merged.
func (c *Cart) AddProduct(product *Product, qty int, unitPrice decimal.Decimal) error {
	if product == nil {
		return ErrNilProduct
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativePrice, unitPrice.String())
	}
	if err := c.checkSalable(product, qty); err != nil {
		return err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == product.ID && c.Items[i].UnitPrice.Equal(unitPrice) {
			c.Items[i].Quantity += qty
			c.Touch()
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{
		ProductID:     product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		UnitPrice:     unitPrice,
		Quantity:      qty,
		StockBypassed: product.Salable,
	})
	c.Touch()
	return nil
}

func (c *Cart) checkSalable(product *Product, qty int) error {
	if !product.IsEnabled() {
		return ErrProductDisabled
	}
	if product.Salable {
		return nil
	}
	stock := product.StockItem
	if stock == nil || !stock.ManageStock {
		return nil
	}
	if !stock.IsInStock {
		return ErrProductOutOfStock
	}
	if c.SkipQtyCheck || stock.AllowsBackorders(false) {
		return nil
	}
	requested := float64(qty + c.QuantityOf(product.ID))
	if requested > stock.Qty {
		return ErrNotEnoughQty
	}
	return nil
}

// QuantityOf returns the quantity already in the cart for a product
func (c *Cart) QuantityOf(productID int64) int {
	total := 0
	for _, item := range c.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// TotalQty returns the sum of all line quantities
func (c *Cart) TotalQty() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// Subtotal returns the sum of row totals
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.RowTotal())
	}
	return total
}

// Draft returns a copy whose items can be changed without touching c
func (c *Cart) Draft() *Cart {
	draft := *c
	draft.Items = make([]CartItem, len(c.Items))
	copy(draft.Items, c.Items)
	return &draft
}

// Commit takes over the items of a draft created by Draft
func (c *Cart) Commit(draft *Cart) error {
	if draft == nil || draft.ID != c.ID {
		return shared.NewDomainError("INVALID_STATE", "draft does not belong to this cart")
	}
	c.Items = draft.Items
	c.UpdatedAt = draft.UpdatedAt
	return nil
}

// MarkImported records that the cart now holds a completely imported order
func (c *Cart) MarkImported() {
	c.AddDomainEvent(NewOrderImportedEvent(c))
}

// BillingCountry returns the billing country, falling back to shipping
func (c *Cart) BillingCountry() string {
	if c.Billing.CountryCode != "" {
		return c.Billing.CountryCode
	}
	return c.Shipping.CountryCode
}
