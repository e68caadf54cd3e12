package integration

import (
	"errors"
	"fmt"
)

// Port and aggregate errors
var (
	ErrProductNotFound     = errors.New("integration: product not found")
	ErrStockItemNotFound   = errors.New("integration: stock item not found")
	ErrStoreConfigNotFound = errors.New("integration: store config not found")
	ErrCartNotFound        = errors.New("integration: cart not found")
	ErrCartAlreadyExists   = errors.New("integration: order was already imported into a cart")
	ErrTaxRateUnavailable  = errors.New("integration: tax rate unavailable")
	ErrInvalidStoreID      = errors.New("integration: invalid store id")
	ErrInvalidCountryCode  = errors.New("integration: country code must have two letters")
	ErrNilProduct          = errors.New("integration: product cannot be nil")
	ErrNilCart             = errors.New("integration: cart cannot be nil")
	ErrInvalidQuantity     = errors.New("integration: quantity must be positive")
	ErrNegativePrice       = errors.New("integration: price cannot be negative")
	ErrProductDisabled     = errors.New("integration: product is disabled")
	ErrProductOutOfStock   = errors.New("integration: product is out of stock")
	ErrNotEnoughQty        = errors.New("integration: the requested qty is not available")
)

// ImportErrorKind classifies import failures
type ImportErrorKind string

const (
	ImportErrorEmptyItems      ImportErrorKind = "EMPTY_ITEMS"
	ImportErrorProductNotFound ImportErrorKind = "PRODUCT_NOT_FOUND"
	ImportErrorItemFailed      ImportErrorKind = "ITEM_FAILED"
)

// Error codes surfaced to API clients
const (
	CodeImportEmptyItems      = "IMPORT_EMPTY_ITEMS"
	CodeImportProductNotFound = "IMPORT_PRODUCT_NOT_FOUND"
	CodeImportItemFailed      = "IMPORT_ITEM_FAILED"
)

// ImportError is returned when an order cannot be imported into a cart.
// Only the first failing line is reported.
type ImportError struct {
	Kind      ImportErrorKind
	ProductID int64
	Title     string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ImportError) Error() string {
	return e.Message
}

// Unwrap returns the cause of a per-item failure
func (e *ImportError) Unwrap() error {
	return e.Err
}

// Code returns the client facing error code for the kind
func (e *ImportError) Code() string {
	switch e.Kind {
	case ImportErrorEmptyItems:
		return CodeImportEmptyItems
	case ImportErrorProductNotFound:
		return CodeImportProductNotFound
	default:
		return CodeImportItemFailed
	}
}

// NewEmptyItemsError reports an order without product lines
func NewEmptyItemsError() *ImportError {
	return &ImportError{
		Kind:    ImportErrorEmptyItems,
		Message: "Order has no products to import",
	}
}

// NewProductNotFoundError reports a line whose product id does not resolve
func NewProductNotFoundError(line OrderLine, cause error) *ImportError {
	return &ImportError{
		Kind:      ImportErrorProductNotFound,
		ProductID: line.ProductID,
		Title:     line.Title,
		Message:   fmt.Sprintf("Product %q not found in catalog (ID: %d)", line.DisplayTitle(), line.ProductID),
		Err:       cause,
	}
}

// NewItemFailedError reports a resolvable line that could not be added
func NewItemFailedError(line OrderLine, cause error) *ImportError {
	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
	}
	return &ImportError{
		Kind:      ImportErrorItemFailed,
		ProductID: line.ProductID,
		Title:     line.Title,
		Message:   fmt.Sprintf("Product %q: %s", line.DisplayTitle(), reason),
		Err:       cause,
	}
}

// AsImportError extracts an ImportError from an error chain
func AsImportError(err error) (*ImportError, bool) {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr, true
	}
	return nil, false
}
