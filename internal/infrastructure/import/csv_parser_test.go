package csvimport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Apolones/estore/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// readAll drains the parser, stopping at the first error
func readAll(p *RecordParser) ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

func TestNewRecordParser(t *testing.T) {
	t.Run("header is skipped", func(t *testing.T) {
		data := "id;name;address\n1;Central;Main st. 1\n2;North;Oak ave. 5\n"
		p, err := NewRecordParser(strings.NewReader(data), "UTF-8")
		require.NoError(t, err)

		rows, err := readAll(p)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"1", "Central", "Main st. 1"}, rows[0].Fields)
		assert.Equal(t, 2, rows[0].Line)
		assert.Equal(t, 3, rows[1].Line)
	})

	t.Run("windows-1251 is decoded", func(t *testing.T) {
		encoded, err := charmap.Windows1251.NewEncoder().String("id;name\n1;Телевизоры\n")
		require.NoError(t, err)

		p, err := NewRecordParser(strings.NewReader(encoded), "Windows-1251")
		require.NoError(t, err)

		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, "Телевизоры", row.Get(1))
	})

	t.Run("empty encoding uses default", func(t *testing.T) {
		encoded, err := charmap.Windows1251.NewEncoder().String("id;name\n1;Касса\n")
		require.NoError(t, err)

		p, err := NewRecordParser(strings.NewReader(encoded), "")
		require.NoError(t, err)

		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, "Касса", row.Get(1))
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		p, err := NewRecordParser(strings.NewReader("\xEF\xBB\xBFid;name\n1;Cash\n"), "utf-8")
		require.NoError(t, err)

		rows, err := readAll(p)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "1", rows[0].Get(0))
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := NewRecordParser(strings.NewReader("id\n1\n"), "no-such-charset")

		var encErr *store.UnsupportedEncodingError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, "no-such-charset", encErr.Encoding)
	})

	t.Run("empty file has no rows", func(t *testing.T) {
		p, err := NewRecordParser(strings.NewReader(""), "UTF-8")
		require.NoError(t, err)

		_, err = p.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("header only", func(t *testing.T) {
		p, err := NewRecordParser(strings.NewReader("id;name\n"), "UTF-8")
		require.NoError(t, err)

		rows, err := readAll(p)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		p, err := NewRecordParser(strings.NewReader("id,name\n1,Cash\n"), "UTF-8", WithDelimiter(','))
		require.NoError(t, err)

		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "Cash"}, row.Fields)
	})
}

func TestRecordParser_Next(t *testing.T) {
	t.Run("blank lines are skipped", func(t *testing.T) {
		data := "id;name\n1;A\n\n;\n2;B\n"
		p, err := NewRecordParser(strings.NewReader(data), "UTF-8")
		require.NoError(t, err)

		rows, err := readAll(p)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2", rows[1].Get(0))
	})

	t.Run("fields are trimmed", func(t *testing.T) {
		p, err := NewRecordParser(strings.NewReader("id;name\n 1 ; Cash \n"), "UTF-8")
		require.NoError(t, err)

		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "Cash"}, row.Fields)
	})

	t.Run("quoted field keeps delimiter", func(t *testing.T) {
		p, err := NewRecordParser(strings.NewReader("id;description\n1;\"big; bright\"\n"), "UTF-8")
		require.NoError(t, err)

		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, "big; bright", row.Get(1))
	})

	t.Run("unbalanced quote is malformed", func(t *testing.T) {
		data := "id;name\n1;ok\n2;\"broken\n"
		p, err := NewRecordParser(strings.NewReader(data), "UTF-8")
		require.NoError(t, err)

		_, err = p.Next()
		require.NoError(t, err)

		_, err = p.Next()
		var malformed *store.MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 3, malformed.Line)

		// the error is sticky: no row after it is returned
		_, again := p.Next()
		assert.Equal(t, err, again)
	})

	t.Run("invalid UTF-8 is malformed", func(t *testing.T) {
		data := []byte("id;name\n0;ok\n1;\xff\xfe\n2;fine\n")
		p, err := NewRecordParser(bytes.NewReader(data), "UTF-8")
		require.NoError(t, err)

		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, "ok", row.Get(1))

		_, err = p.Next()
		var malformed *store.MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 3, malformed.Line)
		assert.Contains(t, malformed.Error(), "invalid byte sequence for UTF-8")
	})

	t.Run("replacement character in valid UTF-8 is data", func(t *testing.T) {
		p, err := NewRecordParser(strings.NewReader("id;name\n1;broken \uFFFD glyph\n"), "UTF-8")
		require.NoError(t, err)

		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, "broken \uFFFD glyph", row.Get(1))
	})

	t.Run("byte undefined in windows-1251 is malformed", func(t *testing.T) {
		p, err := NewRecordParser(bytes.NewReader([]byte("id;name\n1;\x98\n")), "Windows-1251")
		require.NoError(t, err)

		_, err = p.Next()
		var malformed *store.MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 2, malformed.Line)
	})

	t.Run("lazy quotes accept a stray quote", func(t *testing.T) {
		data := "id;name\n1;19\" TV\n"

		strict, err := NewRecordParser(strings.NewReader(data), "UTF-8")
		require.NoError(t, err)
		_, err = strict.Next()
		var malformed *store.MalformedRecordError
		require.ErrorAs(t, err, &malformed)

		lazy, err := NewRecordParser(strings.NewReader(data), "UTF-8", WithLazyQuotes(true))
		require.NoError(t, err)
		row, err := lazy.Next()
		require.NoError(t, err)
		assert.Equal(t, `19" TV`, row.Get(1))
	})
}

func TestRecordParser_Reset(t *testing.T) {
	data := "id;name\n1;A\n2;B\n"
	p, err := NewRecordParser(strings.NewReader(data), "UTF-8")
	require.NoError(t, err)

	first, err := readAll(p)
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = p.Next()
	require.True(t, errors.Is(err, io.EOF))

	require.NoError(t, p.Reset())

	second, err := readAll(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		canonical string
	}{
		{"iana windows-1251", "Windows-1251", "windows-1251"},
		{"alias cp1251", "cp1251", "windows-1251"},
		{"koi8-r", "KOI8-R", "KOI8-R"},
		{"utf-8", "UTF-8", "UTF-8"},
		{"alias utf8", "utf8", "UTF-8"},
		{"default", "  ", "windows-1251"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, canonical, err := LookupEncoding(tt.input)
			require.NoError(t, err)
			assert.NotNil(t, enc)
			assert.Equal(t, tt.canonical, canonical)
		})
	}
}
