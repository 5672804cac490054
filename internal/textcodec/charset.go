package textcodec

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset identifies the byte encoding of corpus or export text.
type Charset struct {
	name  string
	enc   encoding.Encoding // nil selects strict UTF-8
	utf16 *utf16Layout
}

// UTF8 is the default charset for both input and output.
var UTF8 = Charset{name: "utf-8"}

// ASCII is strict 7-bit US-ASCII.
var ASCII = Charset{name: "us-ascii", enc: asciiEncoding{}}

// Lookup resolves an encoding name such as "utf-8", "latin1" or "shift_jis".
// IANA names and aliases are tried first, then the WHATWG labels. ASCII
// names resolve to strict 7-bit ASCII rather than the WHATWG windows-1252
// alias.
func Lookup(name string) (Charset, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "ascii", "us-ascii", "ansi_x3.4-1968", "iso646-us", "csascii", "cp367", "ibm367", "us":
		return ASCII, nil
	}

	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(normalized)
		if err != nil || enc == nil {
			return Charset{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
		}
	}
	if enc == xunicode.UTF8 {
		return UTF8, nil
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil || canonical == "" {
		canonical = normalized
	}
	cs := Charset{name: strings.ToLower(canonical), enc: enc}
	if layout, ok := lookupUTF16(enc); ok {
		cs.utf16 = &layout
	}
	return cs, nil
}

// Name returns the canonical lower-case encoding name.
func (c Charset) Name() string {
	if c.name == "" {
		return UTF8.name
	}
	return c.name
}

// IsUTF8 reports whether the charset decodes UTF-8 without transcoding.
func (c Charset) IsUTF8() bool { return c.enc == nil }

// transcode wraps r so that it yields UTF-8. Input the charset cannot decode
// fails with errInvalidInput instead of turning into U+FFFD.
func (c Charset) transcode(r io.Reader) io.Reader {
	if c.enc == nil {
		return r
	}
	var t transform.Transformer = c.enc.NewDecoder()
	if c.utf16 != nil {
		t = newUTF16Guard(t, *c.utf16)
	} else {
		t = &replacementGuard{inner: t}
	}
	return transform.NewReader(r, t)
}

// NewWriter returns a writer encoding UTF-8 text into the charset. Runes the
// charset cannot represent fail the write. Close flushes buffered output but
// leaves w open.
func (c Charset) NewWriter(w io.Writer) io.WriteCloser {
	if c.enc == nil {
		return nopCloser{w}
	}
	return transform.NewWriter(w, c.enc.NewEncoder())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
