package store

import (
	"fmt"
	"strings"

	"github.com/Apolones/estore/internal/domain/shared"
)

// Error codes for the import and purchase taxonomy
const (
	CodeSizeLimitExceeded   = "IMPORT_SIZE_LIMIT"
	CodeFormat              = "IMPORT_FORMAT"
	CodeUnknownFileType     = "IMPORT_UNKNOWN_FILE_TYPE"
	CodeUnsupportedEncoding = "IMPORT_ENCODING"
	CodeMalformedRecord     = "IMPORT_MALFORMED_RECORD"
	CodeFieldFormat         = "IMPORT_FIELD_FORMAT"
	CodeFileImportFailed    = "IMPORT_FILE_FAILED"
	CodeDuplicateRecord     = "IMPORT_DUPLICATE_RECORD"
	CodeReferenceNotFound   = "REFERENCE_NOT_FOUND"
	CodeStockUnavailable    = "STOCK_UNAVAILABLE"
	CodeStockRecordNotFound = "STOCK_RECORD_NOT_FOUND"
)

// SizeLimitExceededError is returned when an upload is larger than allowed.
type SizeLimitExceededError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitExceededError) Error() string {
	return fmt.Sprintf("upload of %d bytes exceeds the limit of %d bytes", e.Size, e.Limit)
}

// ErrorCode implements shared.CodedError
func (e *SizeLimitExceededError) ErrorCode() string { return CodeSizeLimitExceeded }

// FormatError is returned when the payload is not a readable archive or CSV file.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid upload format: %s: %v", e.Reason, e.Err)
	}
	return "invalid upload format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// ErrorCode implements shared.CodedError
func (e *FormatError) ErrorCode() string { return CodeFormat }

// UnknownFileTypeError is returned when an archive entry matches no entity kind.
type UnknownFileTypeError struct {
	FileName string
}

func (e *UnknownFileTypeError) Error() string {
	return fmt.Sprintf("unknown file type: %s", e.FileName)
}

// ErrorCode implements shared.CodedError
func (e *UnknownFileTypeError) ErrorCode() string { return CodeUnknownFileType }

// UnsupportedEncodingError is returned for a charset name that cannot be resolved.
type UnsupportedEncodingError struct {
	Encoding string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding: %q", e.Encoding)
}

// ErrorCode implements shared.CodedError
func (e *UnsupportedEncodingError) ErrorCode() string { return CodeUnsupportedEncoding }

// MalformedRecordError is returned when a line cannot be decoded or split into fields.
// Fields holds the raw fields of the line when they could be recovered.
type MalformedRecordError struct {
	Line   int
	Fields []string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "malformed record at line %d", e.Line)
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Fields, ";"))
	}
	return b.String()
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ErrorCode implements shared.CodedError
func (e *MalformedRecordError) ErrorCode() string { return CodeMalformedRecord }

// FieldFormatError is returned when a field cannot be converted to its type.
// Row is the 1-based line number in the file (the header is line 1).
type FieldFormatError struct {
	Row    int
	Field  int
	Raw    string
	Fields []string
	Err    error
}

func (e *FieldFormatError) Error() string {
	msg := fmt.Sprintf("row %d field %d: cannot parse %q", e.Row, e.Field, e.Raw)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" [%s]", strings.Join(e.Fields, ";"))
	}
	return msg
}

func (e *FieldFormatError) Unwrap() error { return e.Err }

// ErrorCode implements shared.CodedError
func (e *FieldFormatError) ErrorCode() string { return CodeFieldFormat }

// ReferenceNotFoundError is returned when a foreign key names a missing entity.
// Row is zero when the reference did not come from a file.
type ReferenceNotFoundError struct {
	Kind   EntityKind
	Field  string
	ID     int64
	Row    int
	Fields []string
}

func (e *ReferenceNotFoundError) Error() string {
	msg := fmt.Sprintf("%s %d referenced by %s not found", e.Kind, e.ID, e.Field)
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" [%s]", strings.Join(e.Fields, ";"))
	}
	return msg
}

// ErrorCode implements shared.CodedError
func (e *ReferenceNotFoundError) ErrorCode() string { return CodeReferenceNotFound }

// DuplicateRecordError is returned when a loaded row repeats the key of a
// stored row of the same kind.
type DuplicateRecordError struct {
	Kind EntityKind
	Err  error
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("%s rows collide with stored records of the same id", e.Kind)
}

func (e *DuplicateRecordError) Unwrap() error { return e.Err }

// ErrorCode implements shared.CodedError
func (e *DuplicateRecordError) ErrorCode() string { return CodeDuplicateRecord }

// FileImportError attributes a data failure to one file of an import.
// Err is always one of the coded errors of this package.
type FileImportError struct {
	File string
	Kind EntityKind
	Err  error
}

func (e *FileImportError) Error() string {
	return fmt.Sprintf("import of %s (%s) failed: %v", e.File, e.Kind, e.Err)
}

func (e *FileImportError) Unwrap() error { return e.Err }

// ErrorCode implements shared.CodedError
func (e *FileImportError) ErrorCode() string { return CodeFileImportFailed }

// StockUnavailableError is returned when a purchase hits a stock record with zero units.
// It is a normal business outcome rather than a fault.
type StockUnavailableError struct {
	ItemID int64
	ShopID int64
}

func (e *StockUnavailableError) Error() string {
	return fmt.Sprintf("item %d is not available in shop %d", e.ItemID, e.ShopID)
}

// ErrorCode implements shared.CodedError
func (e *StockUnavailableError) ErrorCode() string { return CodeStockUnavailable }

// StockRecordNotFoundError is returned when a (shop, item) pair has no stock record at all.
type StockRecordNotFoundError struct {
	ShopID int64
	ItemID int64
}

func (e *StockRecordNotFoundError) Error() string {
	return fmt.Sprintf("no stock record for item %d in shop %d", e.ItemID, e.ShopID)
}

// ErrorCode implements shared.CodedError
func (e *StockRecordNotFoundError) ErrorCode() string { return CodeStockRecordNotFound }

var (
	_ shared.CodedError = (*SizeLimitExceededError)(nil)
	_ shared.CodedError = (*FormatError)(nil)
	_ shared.CodedError = (*UnknownFileTypeError)(nil)
	_ shared.CodedError = (*UnsupportedEncodingError)(nil)
	_ shared.CodedError = (*MalformedRecordError)(nil)
	_ shared.CodedError = (*FieldFormatError)(nil)
	_ shared.CodedError = (*ReferenceNotFoundError)(nil)
	_ shared.CodedError = (*DuplicateRecordError)(nil)
	_ shared.CodedError = (*FileImportError)(nil)
	_ shared.CodedError = (*StockUnavailableError)(nil)
	_ shared.CodedError = (*StockRecordNotFoundError)(nil)
)
