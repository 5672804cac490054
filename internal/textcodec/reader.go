package textcodec

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

const defaultChunkSize = 64 * 1024

// Options configures a Reader.
type Options struct {
	Charset  Charset
	Newlines NewlineMode
	// ChunkSize bounds the bytes read per Next call. Defaults to 64 KiB.
	ChunkSize int
}

// Reader yields decoded text from a byte stream in chunks. A code point split
// across two underlying reads is carried over, so chunk boundaries never cut a
// character, and a "\r" ending one chunk still swallows a "\n" starting the
// next.
type Reader struct {
	src      io.Reader
	charset  Charset
	newlines NewlineMode

	buf    []byte
	carry  int
	offset int64
	lastCR bool
	eof    bool
	err    error

	pending string
}

// NewReader wraps r. The caller keeps ownership of r and closes it.
func NewReader(r io.Reader, opts Options) *Reader {
	size := opts.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	return &Reader{
		src:      opts.Charset.transcode(r),
		charset:  opts.Charset,
		newlines: opts.Newlines,
		buf:      make([]byte, size+utf8.UTFMax),
	}
}

// Offset returns the number of UTF-8 bytes validated so far.
func (r *Reader) Offset() int64 { return r.offset }

// Next returns the next non-empty chunk of text, or io.EOF once the stream is
// exhausted. After an error every later call returns the same error.
func (r *Reader) Next() (string, error) {
	for {
		if r.err != nil {
			return "", r.err
		}
		if r.eof {
			r.err = io.EOF
			return "", io.EOF
		}

		n, readErr := r.src.Read(r.buf[r.carry : len(r.buf)-utf8.UTFMax+r.carry])
		if errors.Is(readErr, errInvalidInput) {
			r.err = r.decodeError(r.offset+int64(r.carry+n), "invalid byte sequence", nil)
			return "", r.err
		}
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			r.err = r.decodeError(r.offset, "", readErr)
			return "", r.err
		}
		atEOF := errors.Is(readErr, io.EOF)
		data := r.buf[:r.carry+n]

		valid, err := r.validate(data, atEOF)
		if err != nil {
			r.err = err
			return "", err
		}
		chunk := r.translate(data[:valid])
		r.offset += int64(valid)

		r.carry = copy(r.buf, data[valid:])
		r.eof = atEOF

		if chunk != "" {
			return chunk, nil
		}
	}
}

// Read implements io.Reader over the decoded UTF-8 text. It shares state with
// Next, so callers should use one or the other.
func (r *Reader) Read(p []byte) (int, error) {
	for r.pending == "" {
		chunk, err := r.Next()
		if err != nil {
			return 0, err
		}
		r.pending = chunk
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// validate returns the length of the longest prefix of data made of complete,
// well-formed code points. A trailing partial sequence is left for the next
// read unless the stream has ended.
func (r *Reader) validate(data []byte, atEOF bool) (int, error) {
	i := 0
	for i < len(data) {
		c := data[i]
		if c < utf8.RuneSelf {
			i++
			continue
		}
		if !utf8.FullRune(data[i:]) {
			if atEOF {
				return i, r.decodeError(r.offset+int64(i), "unexpected end of data", nil)
			}
			return i, nil
		}
		cp, size := utf8.DecodeRune(data[i:])
		if cp == utf8.RuneError && size == 1 {
			return i, r.decodeError(r.offset+int64(i), "invalid start byte or continuation", nil)
		}
		i += size
	}
	return i, nil
}

func (r *Reader) translate(s []byte) string {
	if r.newlines == NewlineRaw || len(s) == 0 {
		return string(s)
	}
	if !r.lastCR || s[0] != '\n' {
		if bytes.IndexByte(s, '\r') < 0 {
			r.lastCR = false
			return string(s)
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case c == '\r':
			b.WriteByte('\n')
			r.lastCR = true
			continue
		case c == '\n' && r.lastCR:
			r.lastCR = false
			continue
		}
		r.lastCR = false
		b.WriteByte(c)
	}
	return b.String()
}

func (r *Reader) decodeError(offset int64, reason string, cause error) error {
	return &DecodeError{
		Encoding: r.charset.Name(),
		Offset:   offset,
		Reason:   reason,
		Err:      cause,
	}
}
