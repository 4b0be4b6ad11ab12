package csvimport

import (
	"strings"

	"github.com/Apolones/estore/internal/domain/store"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when the caller does not name one
const DefaultEncoding = "Windows-1251"

// encodingAliases covers spellings that are common in exports but unknown to the IANA registry
var encodingAliases = map[string]encoding.Encoding{
	"cp1251":      charmap.Windows1251,
	"win1251":     charmap.Windows1251,
	"windows1251": charmap.Windows1251,
	"cp866":       charmap.CodePage866,
	"koi8r":       charmap.KOI8R,
	"utf8":        unicode.UTF8,
}

// LookupEncoding resolves a charset name to a decoder and its canonical name.
// An empty name resolves to DefaultEncoding. UTF-8 input may carry a BOM.
func LookupEncoding(name string) (encoding.Encoding, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}

	enc, ok := encodingAliases[strings.ToLower(name)]
	if !ok {
		var err error
		enc, err = ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return nil, "", &store.UnsupportedEncodingError{Encoding: name}
		}
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	if enc == unicode.UTF8 {
		enc = unicode.UTF8BOM
	}
	return enc, canonical, nil
}
