package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements integration.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetByID finds a catalog product by its ID. The stock item is not attached.
func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*integration.Product, error) {
	var model models.CatalogProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormStockRegistry implements integration.StockRegistry using GORM
type GormStockRegistry struct {
	db *gorm.DB
}

// NewGormStockRegistry creates a new GormStockRegistry
func NewGormStockRegistry(db *gorm.DB) *GormStockRegistry {
	return &GormStockRegistry{db: db}
}

// GetStockItem finds the stock row of a product
func (r *GormStockRegistry) GetStockItem(ctx context.Context, productID int64) (*integration.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrStockItemNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
