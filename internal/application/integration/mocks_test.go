package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of integration.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*integration.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Product), args.Error(1)
}

// MockStockRegistry is a mock implementation of integration.StockRegistry
type MockStockRegistry struct {
	mock.Mock
}

func (m *MockStockRegistry) GetStockItem(ctx context.Context, productID int64) (*integration.StockItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.StockItem), args.Error(1)
}

// MockTaxRateCalculator is a mock implementation of integration.TaxRateCalculator
type MockTaxRateCalculator struct {
	mock.Mock
}

func (m *MockTaxRateCalculator) Rate(ctx context.Context, req integration.TaxRateRequest) (decimal.Decimal, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSurchargeLookup is a mock implementation of integration.SurchargeLookup
type MockSurchargeLookup struct {
	mock.Mock
}

func (m *MockSurchargeLookup) Available(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSurchargeLookup) Value(ctx context.Context, productID int64, countryCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, productID, countryCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockStoreConfigRepository is a mock implementation of integration.StoreConfigRepository
type MockStoreConfigRepository struct {
	mock.Mock
}

func (m *MockStoreConfigRepository) Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.StoreConfig), args.Error(1)
}

func (m *MockStoreConfigRepository) Save(ctx context.Context, cfg *integration.StoreConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockStoreConfigRepository) List(ctx context.Context) ([]integration.StoreConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]integration.StoreConfig), args.Error(1)
}

// MockStoreConfigCache is a mock implementation of integration.StoreConfigCache
type MockStoreConfigCache struct {
	mock.Mock
}

func (m *MockStoreConfigCache) Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.StoreConfig), args.Error(1)
}

func (m *MockStoreConfigCache) Set(ctx context.Context, cfg *integration.StoreConfig, ttl time.Duration) error {
	args := m.Called(ctx, cfg, ttl)
	return args.Error(0)
}

func (m *MockStoreConfigCache) Delete(ctx context.Context, storeID int64) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

func (m *MockStoreConfigCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of integration.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Save(ctx context.Context, cart *integration.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByChannableID(ctx context.Context, storeID, channableID int64) (*integration.Cart, error) {
	args := m.Called(ctx, storeID, channableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Cart), args.Error(1)
}

// MockPayloadArchive is a mock implementation of integration.PayloadArchive
type MockPayloadArchive struct {
	mock.Mock
}

func (m *MockPayloadArchive) Archive(ctx context.Context, storeID, channableID int64, body []byte) error {
	args := m.Called(ctx, storeID, channableID, body)
	return args.Error(0)
}

// MockPayloadLocator is a mock implementation of integration.PayloadLocator
type MockPayloadLocator struct {
	mock.Mock
}

func (m *MockPayloadLocator) DownloadURL(ctx context.Context, storeID, channableID int64) (string, time.Time, error) {
	args := m.Called(ctx, storeID, channableID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockMaintenanceAction is a mock implementation of MaintenanceAction
type MockMaintenanceAction struct {
	mock.Mock
}

func (m *MockMaintenanceAction) Run(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ integration.ProductRepository     = (*MockProductRepository)(nil)
	_ integration.StockRegistry         = (*MockStockRegistry)(nil)
	_ integration.TaxRateCalculator     = (*MockTaxRateCalculator)(nil)
	_ integration.SurchargeLookup       = (*MockSurchargeLookup)(nil)
	_ integration.StoreConfigRepository = (*MockStoreConfigRepository)(nil)
	_ integration.StoreConfigCache      = (*MockStoreConfigCache)(nil)
	_ integration.CartRepository        = (*MockCartRepository)(nil)
	_ integration.PayloadArchive        = (*MockPayloadArchive)(nil)
	_ integration.PayloadLocator        = (*MockPayloadLocator)(nil)
	_ shared.IdempotencyStore           = (*MockIdempotencyStore)(nil)
	_ MaintenanceAction                 = (*MockMaintenanceAction)(nil)
)
