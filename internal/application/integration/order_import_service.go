package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
	"github.com/orderbridge/backend/internal/infrastructure/logger"
	"github.com/orderbridge/backend/internal/infrastructure/telemetry"
)

// OrderImportService imports Channable orders into carts
type OrderImportService struct {
	importer      *OrderItemImporter
	configs       *StoreConfigService
	carts         integration.CartRepository
	idempotency   shared.IdempotencyStore
	archive       integration.PayloadArchive
	idemConfig    shared.IdempotencyConfig
	logger        *zap.Logger
	importMetrics *telemetry.ImportMetrics
}

// NewOrderImportService creates a new OrderImportService.
// idempotency and archive may be nil.
func NewOrderImportService(
	importer *OrderItemImporter,
	configs *StoreConfigService,
	carts integration.CartRepository,
	idempotency shared.IdempotencyStore,
	archive integration.PayloadArchive,
	idemConfig shared.IdempotencyConfig,
	log *zap.Logger,
) *OrderImportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderImportService{
		importer:    importer,
		configs:     configs,
		carts:       carts,
		idempotency: idempotency,
		archive:     archive,
		idemConfig:  idemConfig,
		logger:      log,
	}
}

// SetImportMetrics sets the import metrics collector
func (s *OrderImportService) SetImportMetrics(m *telemetry.ImportMetrics) {
	s.importMetrics = m
}

// OrderIdempotencyKey is the key an order is remembered under once imported
func OrderIdempotencyKey(storeID, channableID int64) string {
	return fmt.Sprintf("channable:order:%d:%d", storeID, channableID)
}

// ImportOrder imports the lines of an order into a new cart and persists it.
// A failed import releases the order's idempotency key so Channable can retry.
func (s *OrderImportService) ImportOrder(ctx context.Context, req ImportOrderRequest) (*ImportOrderResult, error) {
	start := time.Now()
	payload := req.Payload
	ctx, log := logger.WithOrder(ctx, s.logger, payload.StoreID, payload.ChannableID)

	if err := validatePayload(&payload); err != nil {
		return nil, err
	}

	store, err := s.configs.Get(ctx, payload.StoreID)
	if err != nil {
		return nil, fmt.Errorf("load store config: %w", err)
	}
	if !store.Enabled {
		return nil, shared.NewDomainError("STORE_DISABLED",
			fmt.Sprintf("Channable order import is disabled for store %d", payload.StoreID))
	}

	key := OrderIdempotencyKey(payload.StoreID, payload.ChannableID)
	marked, err := s.markProcessed(ctx, key, &payload)
	if err != nil {
		return nil, err
	}

	var result *ImportOrderResult
	labels := telemetry.OperationLabels("channable_import", map[string]string{
		telemetry.ProfilingLabelChannel: payload.ChannelName,
	})
	telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
		result, err = s.importOrder(ctx, log, req, *store)
	})
	if errors.Is(err, integration.ErrCartAlreadyExists) {
		// the order is persisted, so the key stays marked
		s.recordDuplicate(ctx, payload.StoreID)
		log.Info("Channable order already has a cart", zap.Error(err))
		return nil, alreadyImportedError(&payload)
	}
	if err != nil {
		if marked {
			if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
				log.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
			}
		}
		s.recordFailed(ctx, payload.StoreID, err, time.Since(start))
		log.Warn("Channable order import failed", zap.Error(err))
		return nil, err
	}

	if s.importMetrics != nil {
		s.importMetrics.RecordImported(ctx, payload.StoreID, result.LVB, result.ItemCount, result.TotalQty, time.Since(start))
	}
	log.Info("Channable order imported",
		zap.String("cart_id", result.CartID.String()),
		zap.Int("total_qty", result.TotalQty),
		zap.Bool("lvb", result.LVB))
	return result, nil
}

// markProcessed reports whether the key was newly marked by this call
func (s *OrderImportService) markProcessed(ctx context.Context, key string, p *integration.OrderPayload) (bool, error) {
	if s.idempotency == nil || !s.idemConfig.Enabled {
		return false, nil
	}
	isNew, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL)
	if err != nil {
		return false, fmt.Errorf("mark order processed: %w", err)
	}
	if !isNew {
		s.recordDuplicate(ctx, p.StoreID)
		return false, alreadyImportedError(p)
	}
	return true, nil
}

func alreadyImportedError(p *integration.OrderPayload) error {
	return shared.NewDomainError("ORDER_ALREADY_IMPORTED",
		fmt.Sprintf("Channable order %d was already imported for store %d", p.ChannableID, p.StoreID))
}

func (s *OrderImportService) recordDuplicate(ctx context.Context, storeID int64) {
	if s.importMetrics != nil {
		s.importMetrics.RecordDuplicate(ctx, storeID)
	}
}

func (s *OrderImportService) importOrder(
	ctx context.Context,
	log *zap.Logger,
	req ImportOrderRequest,
	store integration.StoreConfig,
) (*ImportOrderResult, error) {
	payload := req.Payload
	cart := newCartFromPayload(&payload, store)
	lvb := payload.IsLVB() || req.ForceLVB
	cart.LVB = lvb

	if _, err := s.importer.ImportItems(ctx, cart, &payload, store, lvb); err != nil {
		return nil, err
	}
	cart.MarkImported()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if s.archive != nil && len(req.RawBody) > 0 {
		if err := s.archive.Archive(ctx, payload.StoreID, payload.ChannableID, req.RawBody); err != nil {
			log.Warn("Failed to archive Channable payload", zap.Error(err))
		}
	}
	return toImportOrderResult(cart), nil
}

func (s *OrderImportService) recordFailed(ctx context.Context, storeID int64, err error, elapsed time.Duration) {
	if s.importMetrics == nil {
		return
	}
	s.importMetrics.RecordFailed(ctx, storeID, failureReason(err), elapsed)
}

func failureReason(err error) string {
	if importErr, ok := integration.AsImportError(err); ok {
		return importErr.Code()
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL"
}

func validatePayload(p *integration.OrderPayload) error {
	if p.ChannableID <= 0 {
		return shared.NewDomainError("INVALID_ORDER", "Channable order ID must be positive")
	}
	if p.StoreID < 0 {
		return shared.NewDomainError("INVALID_ORDER", "Store ID cannot be negative")
	}
	if p.Price.Currency != "" {
		if _, err := currency.ParseISO(strings.ToUpper(p.Price.Currency)); err != nil {
			return shared.NewDomainError("INVALID_ORDER",
				fmt.Sprintf("Unknown currency code %q", p.Price.Currency))
		}
	}
	for _, line := range p.Products {
		if line.Quantity < 0 {
			return shared.NewDomainError("INVALID_ORDER",
				fmt.Sprintf("Quantity of product %d cannot be negative", line.ProductID))
		}
		if line.Price.IsNegative() {
			return shared.NewDomainError("INVALID_ORDER",
				fmt.Sprintf("Price of product %d cannot be negative", line.ProductID))
		}
	}
	return nil
}

func newCartFromPayload(p *integration.OrderPayload, store integration.StoreConfig) *integration.Cart {
	cart := integration.NewCart(p.StoreID, p.ChannableID)
	cart.ChannelName = p.ChannelName
	cart.Currency = strings.ToUpper(p.Price.Currency)
	cart.Customer = p.Customer
	cart.Billing = p.Billing
	cart.Shipping = p.Shipping
	if cart.Billing.CountryCode == "" && cart.Shipping.CountryCode == "" {
		cart.Billing.CountryCode = store.DefaultCountry
	}
	return cart
}
