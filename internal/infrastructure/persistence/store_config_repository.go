package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

// GormStoreConfigRepository implements integration.StoreConfigRepository using GORM
type GormStoreConfigRepository struct {
	db *gorm.DB
}

// NewGormStoreConfigRepository creates a new GormStoreConfigRepository
func NewGormStoreConfigRepository(db *gorm.DB) *GormStoreConfigRepository {
	return &GormStoreConfigRepository{db: db}
}

// Get finds the settings of a store
func (r *GormStoreConfigRepository) Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error) {
	var model models.StoreConfigModel
	if err := r.db.WithContext(ctx).First(&model, "store_id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrStoreConfigNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or replaces the settings of a store
func (r *GormStoreConfigRepository) Save(ctx context.Context, cfg *integration.StoreConfig) error {
	model := models.StoreConfigModelFromDomain(cfg)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled",
				"price_includes_tax",
				"deduct_fpt_tax",
				"disable_stock_check_on_import",
				"backorders_enabled",
				"lvb_disable_stock_movement",
				"default_country",
				"updated_at",
			}),
		}).
		Create(model).Error
}

// List returns all stored settings ordered by store
func (r *GormStoreConfigRepository) List(ctx context.Context) ([]integration.StoreConfig, error) {
	var rows []models.StoreConfigModel
	if err := r.db.WithContext(ctx).Order("store_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	configs := make([]integration.StoreConfig, 0, len(rows))
	for i := range rows {
		configs = append(configs, *rows[i].ToDomain())
	}
	return configs, nil
}
