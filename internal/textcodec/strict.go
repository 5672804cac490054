package textcodec

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// errInvalidInput is returned by the strict decoders. Reader turns it into a
// *DecodeError positioned at the first rejected character.
var errInvalidInput = errors.New("invalid byte sequence")

var replacementChar = []byte(string(utf8.RuneError))

// replacementGuard fails a decode as soon as the wrapped decoder substitutes
// U+FFFD for input it could not map. Single-byte and CJK charsets cannot
// encode U+FFFD, so any occurrence marks bad input. Output before the
// substitution is still delivered.
type replacementGuard struct {
	inner transform.Transformer
}

func (g *replacementGuard) Reset() { g.inner.Reset() }

func (g *replacementGuard) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	nDst, nSrc, err := g.inner.Transform(dst, src, atEOF)
	if i := bytes.Index(dst[:nDst], replacementChar); i >= 0 {
		return i, nSrc, errInvalidInput
	}
	return nDst, nSrc, err
}

// utf16Layout describes how a UTF-16 charset reads code units.
type utf16Layout struct {
	bigEndian bool
	acceptBOM bool
}

func lookupUTF16(enc encoding.Encoding) (utf16Layout, bool) {
	for _, endian := range []xunicode.Endianness{xunicode.BigEndian, xunicode.LittleEndian} {
		for _, policy := range []xunicode.BOMPolicy{xunicode.IgnoreBOM, xunicode.UseBOM, xunicode.ExpectBOM} {
			if enc == xunicode.UTF16(endian, policy) {
				return utf16Layout{
					bigEndian: endian == xunicode.BigEndian,
					acceptBOM: policy != xunicode.IgnoreBOM,
				}, true
			}
		}
	}
	return utf16Layout{}, false
}

// utf16Guard validates UTF-16 input ahead of the wrapped decoder, which would
// otherwise turn unpaired surrogates and a dangling odd byte into U+FFFD. A
// U+FFFD actually present in the input passes through.
type utf16Guard struct {
	inner  transform.Transformer
	layout utf16Layout

	bigEndian bool
	started   bool
}

func newUTF16Guard(inner transform.Transformer, layout utf16Layout) *utf16Guard {
	return &utf16Guard{inner: inner, layout: layout, bigEndian: layout.bigEndian}
}

func (g *utf16Guard) Reset() {
	g.inner.Reset()
	g.bigEndian = g.layout.bigEndian
	g.started = false
}

func (g *utf16Guard) unit(b []byte) uint16 {
	if g.bigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

func (g *utf16Guard) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	if !g.started {
		if len(src) < 2 && !atEOF {
			return 0, 0, transform.ErrShortSrc
		}
		g.started = true
		if g.layout.acceptBOM && len(src) >= 2 {
			switch {
			case src[0] == 0xFE && src[1] == 0xFF:
				g.bigEndian = true
			case src[0] == 0xFF && src[1] == 0xFE:
				g.bigEndian = false
			}
		}
	}

	valid, bad := 0, false
	for valid < len(src) {
		if len(src)-valid < 2 {
			bad = atEOF
			break
		}
		u := g.unit(src[valid:])
		if u >= 0xDC00 && u <= 0xDFFF {
			bad = true
			break
		}
		if u >= 0xD800 && u <= 0xDBFF {
			if len(src)-valid < 4 {
				bad = atEOF
				break
			}
			if low := g.unit(src[valid+2:]); low < 0xDC00 || low > 0xDFFF {
				bad = true
				break
			}
			valid += 4
			continue
		}
		valid += 2
	}

	complete := valid == len(src)
	if valid == 0 {
		switch {
		case bad:
			return 0, 0, errInvalidInput
		case !complete:
			return 0, 0, transform.ErrShortSrc
		}
	}
	nDst, nSrc, err := g.inner.Transform(dst, src[:valid], atEOF && complete)
	if nSrc < valid || (err != nil && err != transform.ErrShortSrc) {
		return nDst, nSrc, err
	}
	switch {
	case bad:
		return nDst, nSrc, errInvalidInput
	case !complete:
		return nDst, nSrc, transform.ErrShortSrc
	}
	return nDst, nSrc, err
}

// asciiEncoding is strict 7-bit US-ASCII in both directions.
type asciiEncoding struct{}

func (asciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: asciiTransformer{err: errInvalidInput}}
}

func (asciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiTransformer{err: errNotASCII}}
}

var errNotASCII = errors.New("character not representable in us-ascii")

type asciiTransformer struct {
	transform.NopResetter
	err error
}

func (t asciiTransformer) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	n := 0
	for n < len(src) {
		if src[n] >= utf8.RuneSelf {
			return n, n, t.err
		}
		if n >= len(dst) {
			return n, n, transform.ErrShortDst
		}
		dst[n] = src[n]
		n++
	}
	return n, n, nil
}
