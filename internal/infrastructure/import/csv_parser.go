package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Apolones/estore/internal/domain/store"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DefaultDelimiter is the field separator of estore exports
const DefaultDelimiter = ';'

// RecordParser reads a delimited text resource row by row.
// The first line is always treated as a header and skipped. Rows are decoded
// lazily from the underlying reader, and Reset rewinds to the first data row.
type RecordParser struct {
	source       io.ReadSeeker
	enc          encoding.Encoding
	encodingName string
	delimiter    rune
	lazyQuotes   bool
	reader       *csv.Reader
	// checkDecoded is set for charsets without a byte level check
	checkDecoded bool
	err          error
}

// ParserOption is a functional option for RecordParser configuration
type ParserOption func(*RecordParser)

// WithDelimiter sets the field delimiter (default is ';')
func WithDelimiter(d rune) ParserOption {
	return func(p *RecordParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes tolerates quotes inside unquoted fields
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *RecordParser) {
		p.lazyQuotes = lazy
	}
}

// NewRecordParser creates a parser over src decoded with the named charset
func NewRecordParser(src io.ReadSeeker, encodingName string, opts ...ParserOption) (*RecordParser, error) {
	enc, canonical, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	p := &RecordParser{
		source:       src,
		enc:          enc,
		encodingName: canonical,
		delimiter:    DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.Reset(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset rewinds the parser to the first row after the header
func (p *RecordParser) Reset() error {
	if _, err := p.source.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind source: %w", err)
	}

	var raw io.Reader = p.source
	strict := newStrictInput(p.enc, p.encodingName)
	if strict != nil {
		raw = transform.NewReader(raw, strict)
	}

	r := csv.NewReader(transform.NewReader(raw, p.enc.NewDecoder()))
	r.Comma = p.delimiter
	r.LazyQuotes = p.lazyQuotes
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	p.reader = r
	p.checkDecoded = strict == nil
	p.err = nil

	// A broken header surfaces on the first Next call
	if _, err := r.Read(); err != nil && !errors.Is(err, io.EOF) {
		p.err = p.wrapReadError(err)
	}
	return nil
}

// Next returns the next non-blank row, io.EOF after the last one, or a
// *store.MalformedRecordError. An error is sticky until Reset.
func (p *RecordParser) Next() (*Row, error) {
	if p.err != nil {
		return nil, p.err
	}

	for {
		record, err := p.reader.Read()
		if errors.Is(err, io.EOF) {
			p.err = io.EOF
			return nil, io.EOF
		}
		if err != nil {
			p.err = p.wrapReadError(err)
			return nil, p.err
		}

		line, _ := p.reader.FieldPos(0)
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if isBlank(record) {
			continue
		}
		if p.checkDecoded && !validText(record) {
			p.err = &store.MalformedRecordError{
				Line:   line,
				Fields: record,
				Reason: fmt.Sprintf("invalid byte sequence for %s", p.encodingName),
			}
			return nil, p.err
		}

		return &Row{Line: line, Fields: record}, nil
	}
}

func (p *RecordParser) wrapReadError(err error) error {
	var malformed *store.MalformedRecordError
	if errors.As(err, &malformed) {
		return malformed
	}
	malformed = &store.MalformedRecordError{Err: err}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		malformed.Line = parseErr.StartLine
		malformed.Err = parseErr.Err
	}
	return malformed
}

func isBlank(record []string) bool {
	for _, f := range record {
		if f != "" {
			return false
		}
	}
	return true
}

// validText rejects fields holding the replacement rune, which multi-byte
// decoders emit for byte sequences the charset does not define.
func validText(record []string) bool {
	for _, f := range record {
		if strings.ContainsRune(f, utf8.RuneError) {
			return false
		}
	}
	return true
}
