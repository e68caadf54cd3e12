package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// OrderItemImporter adds the product lines of a Channable order to a cart.
// Per line it resolves the product, reconciles the reported price with the
// store's tax settings and optionally bypasses stock validation.
type OrderItemImporter struct {
	products   integration.ProductRepository
	stock      integration.StockRegistry
	taxRates   integration.TaxRateCalculator
	surcharges integration.SurchargeLookup
	logger     *zap.Logger
}

// NewOrderItemImporter creates a new OrderItemImporter
func NewOrderItemImporter(
	products integration.ProductRepository,
	stock integration.StockRegistry,
	taxRates integration.TaxRateCalculator,
	surcharges integration.SurchargeLookup,
	logger *zap.Logger,
) *OrderItemImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderItemImporter{
		products:   products,
		stock:      stock,
		taxRates:   taxRates,
		surcharges: surcharges,
		logger:     logger,
	}
}

// ImportItems adds every line of payload to cart and returns the imported quantity.
//
// The session flags are set on cart before any line is processed. Lines are
// added to a draft of the cart which replaces the cart's items only when every
// line succeeded, so a failing import leaves the cart's items untouched. The
// first failing line aborts the import with an *integration.ImportError.
func (i *OrderItemImporter) ImportItems(
	ctx context.Context,
	cart *integration.Cart,
	payload *integration.OrderPayload,
	store integration.StoreConfig,
	lvb bool,
) (int, error) {
	if cart == nil {
		return 0, integration.ErrNilCart
	}
	if payload == nil || !payload.HasProducts() {
		return 0, integration.NewEmptyItemsError()
	}

	cart.SetSessionFlags(store.SessionFlags(lvb))

	deductSurcharge, err := i.surchargeEnabled(ctx, store)
	if err != nil {
		return 0, err
	}

	draft := cart.Draft()
	total, imported := 0, 0
	for _, line := range payload.Products {
		// channels report cancelled lines with quantity 0
		if line.Quantity == 0 {
			i.logger.Debug("Skipping order line without quantity",
				zap.Int64("channable_id", payload.ChannableID),
				zap.Int64("product_id", line.ProductID))
			continue
		}
		if err := i.importLine(ctx, draft, line, store, lvb, deductSurcharge); err != nil {
			return 0, i.reformatError(ctx, line, err)
		}
		total += line.Quantity
		imported++
	}
	if imported == 0 {
		return 0, integration.NewEmptyItemsError()
	}

	if err := cart.Commit(draft); err != nil {
		return 0, err
	}

	i.logger.Debug("Order lines imported",
		zap.Int64("channable_id", payload.ChannableID),
		zap.Int("lines", imported),
		zap.Int("qty", total),
		zap.Bool("lvb", lvb))
	return total, nil
}

func (i *OrderItemImporter) surchargeEnabled(ctx context.Context, store integration.StoreConfig) (bool, error) {
	if !store.DeductFPTTax || i.surcharges == nil {
		return false, nil
	}
	available, err := i.surcharges.Available(ctx)
	if err != nil {
		return false, fmt.Errorf("check surcharge table: %w", err)
	}
	return available, nil
}

func (i *OrderItemImporter) importLine(
	ctx context.Context,
	cart *integration.Cart,
	line integration.OrderLine,
	store integration.StoreConfig,
	lvb bool,
	deductSurcharge bool,
) error {
	product, err := i.products.GetByID(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if product.StockItem == nil {
		stockItem, err := i.stock.GetStockItem(ctx, product.ID)
		if err != nil && !errors.Is(err, integration.ErrStockItemNotFound) {
			return err
		}
		product.StockItem = stockItem
	}

	price, err := i.linePrice(ctx, cart, product, line, store, deductSurcharge)
	if err != nil {
		return err
	}

	if store.BypassStockCheck(lvb) {
		product.BypassStock()
	}

	return cart.AddProduct(product, line.Quantity, price)
}

func (i *OrderItemImporter) linePrice(
	ctx context.Context,
	cart *integration.Cart,
	product *integration.Product,
	line integration.OrderLine,
	store integration.StoreConfig,
	deductSurcharge bool,
) (decimal.Decimal, error) {
	input := integration.PriceInput{
		Reported:         line.Price,
		PriceIncludesTax: store.PriceIncludesTax,
	}

	if !store.PriceIncludesTax {
		rate, err := i.taxRates.Rate(ctx, integration.TaxRateRequest{
			TaxClassID: product.TaxClassID,
			StoreID:    cart.StoreID,
			Shipping:   cart.Shipping,
			Billing:    cart.Billing,
		})
		if err != nil {
			return decimal.Zero, err
		}
		input.TaxRate = rate
	}

	if deductSurcharge {
		surcharge, err := i.surcharges.Value(ctx, product.ID, cart.BillingCountry())
		if err != nil {
			return decimal.Zero, err
		}
		input.Surcharge = surcharge
	}

	return integration.ReconcilePrice(input), nil
}

// reformatError turns a line failure into the error reported to Channable.
// The product is resolved again to tell a missing product from any other failure.
func (i *OrderItemImporter) reformatError(ctx context.Context, line integration.OrderLine, cause error) error {
	product, err := i.products.GetByID(ctx, line.ProductID)
	if err != nil {
		i.logger.Warn("Order line product not found",
			zap.Int64("product_id", line.ProductID),
			zap.String("title", line.Title),
			zap.Error(cause))
		return integration.NewProductNotFoundError(line, cause)
	}

	if line.Title == "" && product != nil {
		line.Title = product.Name
	}
	i.logger.Warn("Order line import failed",
		zap.Int64("product_id", line.ProductID),
		zap.String("title", line.Title),
		zap.Error(cause))
	return integration.NewItemFailedError(line, cause)
}
