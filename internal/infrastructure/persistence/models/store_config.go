package models

import (
	"time"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// StoreConfigModel is the persistence model for per-store import settings
type StoreConfigModel struct {
	StoreID                   int64  `gorm:"primaryKey;autoIncrement:false"`
	Enabled                   bool   `gorm:"not null"`
	PriceIncludesTax          bool   `gorm:"not null"`
	DeductFPTTax              bool   `gorm:"column:deduct_fpt_tax;not null"`
	DisableStockCheckOnImport bool   `gorm:"not null"`
	BackordersEnabled         bool   `gorm:"not null"`
	LVBDisableStockMovement   bool   `gorm:"column:lvb_disable_stock_movement;not null"`
	DefaultCountry            string `gorm:"type:char(2);not null"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// TableName returns the table name for GORM
func (StoreConfigModel) TableName() string {
	return "store_configs"
}

// ToDomain converts the model to a domain StoreConfig
func (m *StoreConfigModel) ToDomain() *integration.StoreConfig {
	return &integration.StoreConfig{
		StoreID:                   m.StoreID,
		Enabled:                   m.Enabled,
		PriceIncludesTax:          m.PriceIncludesTax,
		DeductFPTTax:              m.DeductFPTTax,
		DisableStockCheckOnImport: m.DisableStockCheckOnImport,
		BackordersEnabled:         m.BackordersEnabled,
		LVBDisableStockMovement:   m.LVBDisableStockMovement,
		DefaultCountry:            m.DefaultCountry,
	}
}

// StoreConfigModelFromDomain creates a model from a domain StoreConfig
func StoreConfigModelFromDomain(cfg *integration.StoreConfig) *StoreConfigModel {
	return &StoreConfigModel{
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
