package integration

// ProductStatus mirrors the catalog enable flag
type ProductStatus int

const (
	ProductStatusEnabled  ProductStatus = 1
	ProductStatusDisabled ProductStatus = 2
)

// StockItem is the inventory record of a product.
// The importer only ever changes it in memory.
type StockItem struct {
	ProductID           int64
	Qty                 float64
	IsInStock           bool
	ManageStock         bool
	Backorders          bool
	UseConfigBackorders bool
}

// AllowsBackorders resolves the effective backorder setting
func (s *StockItem) AllowsBackorders(storeBackorders bool) bool {
	if s.UseConfigBackorders {
		return storeBackorders
	}
	return s.Backorders
}

// Product is a catalog product
type Product struct {
	ID         int64
	SKU        string
	Name       string
	TypeID     string
	TaxClassID int64
	Status     ProductStatus
	StockItem  *StockItem
	// Salable is set when stock validation was bypassed for this product
	Salable bool
}

// IsEnabled reports whether the product may be sold
func (p *Product) IsEnabled() bool {
	return p.Status != ProductStatusDisabled
}

// BypassStock forces the product to be accepted by the cart regardless of inventory
func (p *Product) BypassStock() {
	if p.StockItem == nil {
		p.StockItem = &StockItem{ProductID: p.ID}
	}
	p.StockItem.UseConfigBackorders = false
	p.StockItem.Backorders = true
	p.StockItem.IsInStock = true
	p.Salable = true
}
