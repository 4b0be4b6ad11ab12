package csvimport

import (
	"fmt"
	"unicode/utf8"

	"github.com/Apolones/estore/internal/domain/store"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// byteCheck returns the length of the next character in p, or ok=false when
// p starts with bytes the charset does not define. short reports that p ends
// inside a character and more input is needed.
type byteCheck func(p []byte, atEOF bool) (size int, ok, short bool)

// strictInput copies raw input unchanged and fails with a
// *store.MalformedRecordError on the first undefined byte sequence.
// It runs in front of the decoder, which would otherwise substitute U+FFFD.
type strictInput struct {
	charset string
	check   byteCheck
	line    int
}

// newStrictInput returns the validator for enc, or nil when the charset has
// no byte level check and its decoder output is inspected instead.
func newStrictInput(enc encoding.Encoding, charset string) transform.Transformer {
	if enc == unicode.UTF8BOM || enc == unicode.UTF8 {
		return &strictInput{charset: charset, check: checkUTF8}
	}
	if cm, ok := enc.(*charmap.Charmap); ok {
		return &strictInput{charset: charset, check: func(p []byte, _ bool) (int, bool, bool) {
			return 1, cm.DecodeByte(p[0]) != utf8.RuneError, false
		}}
	}
	return nil
}

func checkUTF8(p []byte, atEOF bool) (int, bool, bool) {
	if p[0] < utf8.RuneSelf {
		return 1, true, false
	}
	if !atEOF && !utf8.FullRune(p) {
		return 0, false, true
	}
	r, size := utf8.DecodeRune(p)
	return size, r != utf8.RuneError || size > 1, false
}

func (s *strictInput) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		size, ok, short := s.check(src[nSrc:], atEOF)
		if short {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if !ok {
			return nDst, nSrc, &store.MalformedRecordError{
				Line:   s.line + 1,
				Reason: fmt.Sprintf("invalid byte sequence for %s", s.charset),
			}
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		if src[nSrc] == '\n' {
			s.line++
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}

func (s *strictInput) Reset() {
	s.line = 0
}
