package csvimport

import (
	"strconv"
	"strings"
	"time"

	"github.com/Apolones/estore/internal/domain/store"
)

// Date layouts used by estore exports
const (
	DateLayout     = "02.01.2006"
	DateTimeLayout = "02.01.2006 15:04"
)

// Row is one data line of a delimited file
type Row struct {
	// Line is the 1-based line number in the file; the header is line 1
	Line   int
	Fields []string
}

// Len returns the number of fields
func (r *Row) Len() int {
	return len(r.Fields)
}

// Get returns field i, or "" when the row is shorter
func (r *Row) Get(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Require checks that the row has at least n fields
func (r *Row) Require(n int) error {
	if len(r.Fields) < n {
		return &store.MalformedRecordError{
			Line:   r.Line,
			Fields: r.Fields,
			Reason: "expected " + strconv.Itoa(n) + " fields, got " + strconv.Itoa(len(r.Fields)),
		}
	}
	return nil
}

// Int64 parses field i as a decimal integer
func (r *Row) Int64(i int) (int64, error) {
	raw := r.Get(i)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, r.fieldError(i, raw, err)
	}
	return v, nil
}

// OptionalInt64 parses field i, returning nil for an empty field
func (r *Row) OptionalInt64(i int) (*int64, error) {
	if r.Get(i) == "" {
		return nil, nil
	}
	v, err := r.Int64(i)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Int parses field i as a non-negative count
func (r *Row) Int(i int) (int, error) {
	raw := r.Get(i)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, r.fieldError(i, raw, err)
	}
	if v < 0 {
		return 0, r.fieldError(i, raw, strconv.ErrRange)
	}
	return v, nil
}

// Bool parses field i; accepts true/false/1/0 in any case
func (r *Row) Bool(i int) (bool, error) {
	raw := r.Get(i)
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, r.fieldError(i, raw, err)
	}
	return v, nil
}

// Date parses field i with DateLayout
func (r *Row) Date(i int) (time.Time, error) {
	return r.time(i, DateLayout)
}

// DateTime parses field i with DateTimeLayout
func (r *Row) DateTime(i int) (time.Time, error) {
	return r.time(i, DateTimeLayout)
}

func (r *Row) time(i int, layout string) (time.Time, error) {
	raw := r.Get(i)
	v, err := time.ParseInLocation(layout, raw, time.Local)
	if err != nil {
		return time.Time{}, r.fieldError(i, raw, err)
	}
	return v, nil
}

// fieldError reports field i with a 1-based index, matching how people count columns
func (r *Row) fieldError(i int, raw string, err error) error {
	return &store.FieldFormatError{
		Row:    r.Line,
		Field:  i + 1,
		Raw:    raw,
		Fields: r.Fields,
		Err:    err,
	}
}
