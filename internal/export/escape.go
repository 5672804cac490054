package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEscape reports a malformed escape sequence passed to Unescape.
var ErrInvalidEscape = errors.New("invalid escape sequence")

const hexDigits = "0123456789ABCDEF"

func needsEscape(r rune) bool {
	return r == '\\' || r <= 0x1F || r == 0x7F
}

// Escape renders s so that it fits on one TSV field: a backslash becomes
// `\\`, control code points 0-31 and 127 become `\xHH` with upper-case hex,
// everything else passes through.
func Escape(s string) string {
	if strings.IndexFunc(s, needsEscape) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r <= 0x1F || r == 0x7F:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[r>>4])
			b.WriteByte(hexDigits[r&0xF])
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape reverses Escape. Hex digits are accepted in either case.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("%w: trailing backslash in %q", ErrInvalidEscape, s)
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case 'x':
			if i+3 >= len(s) {
				return "", fmt.Errorf("%w: short \\x sequence in %q", ErrInvalidEscape, s)
			}
			hi, okHi := unhex(s[i+2])
			lo, okLo := unhex(s[i+3])
			if !okHi || !okLo {
				return "", fmt.Errorf("%w: bad hex digits %q in %q", ErrInvalidEscape, s[i+2:i+4], s)
			}
			b.WriteByte(hi<<4 | lo)
			i += 3
		default:
			return "", fmt.Errorf("%w: \\%c in %q", ErrInvalidEscape, s[i+1], s)
		}
	}
	return b.String(), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
