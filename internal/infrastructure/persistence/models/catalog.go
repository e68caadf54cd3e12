package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// CatalogProductModel is the persistence model for catalog products
type CatalogProductModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement:false"`
	SKU        string `gorm:"column:sku;type:varchar(64);not null;uniqueIndex"`
	Name       string `gorm:"type:varchar(255);not null"`
	TypeID     string `gorm:"type:varchar(32);not null;default:simple"`
	TaxClassID int64  `gorm:"not null;default:0"`
	Status     int    `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (CatalogProductModel) TableName() string {
	return "catalog_products"
}

// ToDomain converts the model to a domain Product without stock item
func (m *CatalogProductModel) ToDomain() *integration.Product {
	return &integration.Product{
		ID:         m.ID,
		SKU:        m.SKU,
		Name:       m.Name,
		TypeID:     m.TypeID,
		TaxClassID: m.TaxClassID,
		Status:     integration.ProductStatus(m.Status),
	}
}

// StockItemModel is the persistence model for product stock
type StockItemModel struct {
	ProductID           int64           `gorm:"primaryKey;autoIncrement:false"`
	Qty                 decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	IsInStock           bool            `gorm:"not null"`
	ManageStock         bool            `gorm:"not null"`
	Backorders          bool            `gorm:"not null"`
	UseConfigBackorders bool            `gorm:"not null"`
	UpdatedAt           time.Time
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the model to a domain StockItem
func (m *StockItemModel) ToDomain() *integration.StockItem {
	return &integration.StockItem{
		ProductID:           m.ProductID,
		Qty:                 m.Qty.InexactFloat64(),
		IsInStock:           m.IsInStock,
		ManageStock:         m.ManageStock,
		Backorders:          m.Backorders,
		UseConfigBackorders: m.UseConfigBackorders,
	}
}

// TaxRateModel maps a tax class and destination country to a rate in percent.
// StoreID 0 applies to every store.
type TaxRateModel struct {
	ID          int64           `gorm:"primaryKey"`
	TaxClassID  int64           `gorm:"not null;index:idx_tax_rates_lookup"`
	CountryCode string          `gorm:"type:char(2);not null;index:idx_tax_rates_lookup"`
	StoreID     int64           `gorm:"not null;default:0;index:idx_tax_rates_lookup"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}

// TableName returns the table name for GORM
func (TaxRateModel) TableName() string {
	return "tax_rates"
}

// WeeeTaxModel is a fixed product tax (weee) row
type WeeeTaxModel struct {
	ValueID     int64           `gorm:"primaryKey"`
	EntityID    int64           `gorm:"not null;index:idx_weee_tax_lookup"`
	CountryCode string          `gorm:"column:country;type:char(2);not null;index:idx_weee_tax_lookup"`
	Value       decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}

// TableName returns the table name for GORM
func (WeeeTaxModel) TableName() string {
	return "weee_tax"
}
