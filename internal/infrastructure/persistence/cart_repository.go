package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

// GormCartRepository implements integration.CartRepository using GORM
type GormCartRepository struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

// CartRepositoryOption configures a GormCartRepository
type CartRepositoryOption func(*GormCartRepository)

// WithOutbox makes Save write the cart's pending domain events to the outbox
// in the same transaction
func WithOutbox(saver shared.OutboxEventSaver) CartRepositoryOption {
	return func(r *GormCartRepository) {
		r.outbox = saver
	}
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB, opts ...CartRepositoryOption) *GormCartRepository {
	r := &GormCartRepository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithTx returns a new repository instance with the given transaction
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: tx, outbox: r.outbox}
}

// Save stores the cart, replaces its items and records its pending events in one transaction.
// Pending events are cleared once the transaction commits. A second cart for the
// same Channable order fails with integration.ErrCartAlreadyExists.
func (r *GormCartRepository) Save(ctx context.Context, cart *integration.Cart) error {
	model := models.CartModelFromDomain(cart)
	items := model.Items
	model.Items = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"customer", "billing_address", "shipping_address",
				"items_qty", "subtotal", "skip_qty_check", "skip_reservation", "lvb", "updated_at",
			}),
		}).Create(model).Error
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if r.outbox != nil {
			return r.outbox.SaveEvents(ctx, tx, cart.GetDomainEvents()...)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: store %d, order %d", integration.ErrCartAlreadyExists, cart.StoreID, cart.ChannableID)
	}
	if err != nil {
		return err
	}
	cart.ClearDomainEvents()
	return nil
}

// FindByID finds a cart with its items
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Cart, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByChannableID finds the cart an order was imported into
func (r *GormCartRepository) FindByChannableID(ctx context.Context, storeID, channableID int64) (*integration.Cart, error) {
	return r.findOne(ctx, "store_id = ? AND channable_id = ?", storeID, channableID)
}

func (r *GormCartRepository) findOne(ctx context.Context, query string, args ...any) (*integration.Cart, error) {
	var model models.CartModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where(query, args...).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrCartNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
