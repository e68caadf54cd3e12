package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
	"github.com/orderbridge/backend/internal/infrastructure/event"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

func newPersistedTestCart(t *testing.T) *integration.Cart {
	cart := integration.NewCart(1, 9001)
	cart.ChannelName = "bol"
	cart.Currency = "EUR"
	cart.Customer = integration.Customer{FirstName: "Jan", LastName: "Jansen", Email: "jan@example.com"}
	cart.Billing = integration.Address{FirstName: "Jan", City: "Utrecht", CountryCode: "NL"}
	cart.Shipping = integration.Address{FirstName: "Jan", City: "Antwerpen", CountryCode: "BE"}
	cart.SetSessionFlags(true, true)
	cart.LVB = true

	product := &integration.Product{ID: 10, SKU: "MUG", Name: "Mug", Status: integration.ProductStatusEnabled}
	require.NoError(t, cart.AddProduct(product, 2, decimal.RequireFromString("8.2645")))
	plate := &integration.Product{ID: 11, SKU: "PLATE", Name: "Plate", Status: integration.ProductStatusEnabled}
	require.NoError(t, cart.AddProduct(plate, 1, decimal.NewFromInt(15)))
	return cart
}

func TestGormCartRepository_SaveAndFind(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormCartRepository(db)
	cart := newPersistedTestCart(t)

	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ChannableID, got.ChannableID)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "Utrecht", got.Billing.City)
	assert.Equal(t, "BE", got.Shipping.CountryCode)
	assert.Equal(t, "jan@example.com", got.Customer.Email)
	assert.True(t, got.SkipQtyCheck)
	assert.True(t, got.SkipReservation)
	assert.True(t, got.LVB)
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(10), got.Items[0].ProductID)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("8.2645")))
	assert.Equal(t, 3, got.TotalQty())

	byOrder, err := repo.FindByChannableID(ctx, 1, 9001)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, byOrder.ID)

	var model models.CartModel
	require.NoError(t, db.First(&model, "id = ?", cart.ID).Error)
	assert.Equal(t, 3, model.ItemsQty)
	assert.True(t, model.Subtotal.Equal(decimal.RequireFromString("31.529")))
}

func TestGormCartRepository_SaveReplacesItems(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormCartRepository(db)
	cart := newPersistedTestCart(t)
	require.NoError(t, repo.Save(ctx, cart))

	cart.Items = cart.Items[:1]
	cart.SetSessionFlags(false, false)
	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.False(t, got.SkipQtyCheck)

	var count int64
	db.Model(&models.CartItemModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGormCartRepository_DuplicateOrderRejected(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormCartRepository(db)
	require.NoError(t, repo.Save(ctx, newPersistedTestCart(t)))

	err := repo.Save(ctx, newPersistedTestCart(t))
	require.ErrorIs(t, err, integration.ErrCartAlreadyExists)

	var count int64
	db.Model(&models.CartItemModel{}).Count(&count)
	assert.Equal(t, int64(2), count, "failed save must not leave items behind")
}

func TestGormCartRepository_NotFound(t *testing.T) {
	repo := NewGormCartRepository(setupSQLiteDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, integration.ErrCartNotFound)

	_, err = repo.FindByChannableID(ctx, 1, 1)
	assert.ErrorIs(t, err, integration.ErrCartNotFound)
}

func TestGormCartRepository_SaveWritesOutbox(t *testing.T) {
	db := setupSQLiteDB(t)
	require.NoError(t, db.AutoMigrate(&shared.OutboxEntry{}))
	ctx := context.Background()
	repo := NewGormCartRepository(db, WithOutbox(event.NewOutboxPublisher(event.NewDefaultSerializer())))

	cart := newPersistedTestCart(t)
	cart.MarkImported()
	require.NoError(t, repo.Save(ctx, cart))
	assert.Empty(t, cart.GetDomainEvents())

	var entries []shared.OutboxEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, integration.EventTypeOrderImported, entries[0].EventType)
	assert.Equal(t, cart.ID, entries[0].AggregateID)
	assert.Equal(t, shared.OutboxStatusPending, entries[0].Status)
	assert.Contains(t, string(entries[0].Payload), `"channable_id":9001`)
}

func TestGormCartRepository_OutboxFailureRollsBack(t *testing.T) {
	// no outbox table, so the event insert fails
	db := setupSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormCartRepository(db, WithOutbox(event.NewOutboxPublisher(event.NewDefaultSerializer())))

	cart := newPersistedTestCart(t)
	cart.MarkImported()
	require.Error(t, repo.Save(ctx, cart))
	assert.Len(t, cart.GetDomainEvents(), 1)

	_, err := repo.FindByID(ctx, cart.ID)
	assert.ErrorIs(t, err, integration.ErrCartNotFound)
}
