package persistence

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

// GormTaxRateCalculator implements integration.TaxRateCalculator over the tax_rates table.
// The rate is resolved for the shipping country, or the billing country when no
// shipping country is known. A store specific row wins over the global (store 0) row.
type GormTaxRateCalculator struct {
	db *gorm.DB
}

// NewGormTaxRateCalculator creates a new GormTaxRateCalculator
func NewGormTaxRateCalculator(db *gorm.DB) *GormTaxRateCalculator {
	return &GormTaxRateCalculator{db: db}
}

// Rate returns the rate in percent, zero when no row matches
func (c *GormTaxRateCalculator) Rate(ctx context.Context, req integration.TaxRateRequest) (decimal.Decimal, error) {
	if req.TaxClassID == 0 {
		return decimal.Zero, nil
	}
	country := destinationCountry(req)
	if country == "" {
		return decimal.Zero, integration.ErrTaxRateUnavailable
	}

	var rows []models.TaxRateModel
	err := c.db.WithContext(ctx).
		Where("tax_class_id = ? AND country_code = ? AND store_id IN ?", req.TaxClassID, country, []int64{0, req.StoreID}).
		Order("store_id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return rows[0].Rate, nil
}

func destinationCountry(req integration.TaxRateRequest) string {
	if c := strings.ToUpper(strings.TrimSpace(req.Shipping.CountryCode)); c != "" {
		return c
	}
	return strings.ToUpper(strings.TrimSpace(req.Billing.CountryCode))
}

// GormWeeeTaxLookup implements integration.SurchargeLookup over the weee_tax table
type GormWeeeTaxLookup struct {
	db *gorm.DB
}

// NewGormWeeeTaxLookup creates a new GormWeeeTaxLookup
func NewGormWeeeTaxLookup(db *gorm.DB) *GormWeeeTaxLookup {
	return &GormWeeeTaxLookup{db: db}
}

// Available reports whether the weee_tax table exists
func (l *GormWeeeTaxLookup) Available(ctx context.Context) (bool, error) {
	return l.db.WithContext(ctx).Migrator().HasTable(&models.WeeeTaxModel{}), nil
}

// Value returns the first surcharge stored for the product and country
func (l *GormWeeeTaxLookup) Value(ctx context.Context, productID int64, countryCode string) (decimal.Decimal, error) {
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	if country == "" {
		return decimal.Zero, nil
	}

	var rows []models.WeeeTaxModel
	err := l.db.WithContext(ctx).
		Where("entity_id = ? AND country = ?", productID, country).
		Order("value_id").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return rows[0].Value, nil
}
