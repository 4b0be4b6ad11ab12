package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds http.max_body_size
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeForbidden        = "ERR_FORBIDDEN"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Import error codes
const (
	ErrCodeImportSizeLimit       = "ERR_IMPORT_SIZE_LIMIT"
	ErrCodeImportFormat          = "ERR_IMPORT_FORMAT"
	ErrCodeImportUnknownFileType = "ERR_IMPORT_UNKNOWN_FILE_TYPE"
	ErrCodeImportEncoding        = "ERR_IMPORT_ENCODING"
	ErrCodeImportMalformedRecord = "ERR_IMPORT_MALFORMED_RECORD"
	ErrCodeImportFieldFormat     = "ERR_IMPORT_FIELD_FORMAT"
	ErrCodeImportFileFailed      = "ERR_IMPORT_FILE_FAILED"
)

// Purchase and stock error codes
const (
	ErrCodeReferenceNotFound   = "ERR_REFERENCE_NOT_FOUND"
	ErrCodeStockUnavailable    = "ERR_STOCK_UNAVAILABLE"
	ErrCodeStockRecordNotFound = "ERR_STOCK_RECORD_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeDuplicateRequest: http.StatusConflict,

	// Rejected uploads -> 4xx, nothing was persisted
	ErrCodeImportSizeLimit:       http.StatusRequestEntityTooLarge,
	ErrCodeImportFormat:          http.StatusBadRequest,
	ErrCodeImportUnknownFileType: http.StatusBadRequest,
	ErrCodeImportEncoding:        http.StatusBadRequest,

	// Data errors inside an accepted upload -> 422 Unprocessable Entity
	ErrCodeImportMalformedRecord: http.StatusUnprocessableEntity,
	ErrCodeImportFieldFormat:     http.StatusUnprocessableEntity,
	ErrCodeImportFileFailed:      http.StatusUnprocessableEntity,

	ErrCodeReferenceNotFound:   http.StatusNotFound,
	ErrCodeStockRecordNotFound: http.StatusNotFound,
	ErrCodeStockUnavailable:    http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode converts a domain error code (IMPORT_FORMAT, NOT_FOUND, ...)
// to the API format. Codes already carrying the ERR_ prefix are returned as-is.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
