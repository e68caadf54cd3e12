package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"

	// ErrCodeRequestTooLarge is used when the body exceeds http.max_body_size
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Order import error codes. The IMPORT_* codes are produced by
// integration.ImportError and passed through unchanged.
const (
	ErrCodeImportEmptyItems      = "IMPORT_EMPTY_ITEMS"
	ErrCodeImportProductNotFound = "IMPORT_PRODUCT_NOT_FOUND"
	ErrCodeImportItemFailed      = "IMPORT_ITEM_FAILED"
	ErrCodeOrderAlreadyImported  = "ERR_ORDER_ALREADY_IMPORTED"
	ErrCodeStoreDisabled         = "ERR_STORE_DISABLED"
	ErrCodeInvalidOrder          = "ERR_INVALID_ORDER"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeImportEmptyItems:      http.StatusUnprocessableEntity,
	ErrCodeImportProductNotFound: http.StatusUnprocessableEntity,
	ErrCodeImportItemFailed:      http.StatusUnprocessableEntity,
	ErrCodeOrderAlreadyImported:  http.StatusConflict,
	ErrCodeStoreDisabled:         http.StatusUnprocessableEntity,
	ErrCodeInvalidOrder:          http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps the codes of shared.DomainError to API error codes
var DomainErrorCodeMapping = map[string]string{
	"INVALID_ORDER":          ErrCodeInvalidOrder,
	"STORE_DISABLED":         ErrCodeStoreDisabled,
	"ORDER_ALREADY_IMPORTED": ErrCodeOrderAlreadyImported,
	"INVALID_STORE":          ErrCodeBadRequest,
	"INVALID_STORE_CONFIG":   ErrCodeValidation,
	"INVALID_STATE":          ErrCodeInvalidState,
	"INVALID_STATUS":         ErrCodeInvalidState,
	"ENTRY_NOT_FOUND":        ErrCodeNotFound,
	"NOT_FOUND":              ErrCodeNotFound,
	"INTERNAL_ERROR":         ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Codes already in API form, or unknown, are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
