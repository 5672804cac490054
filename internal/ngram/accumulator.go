package ngram

import (
	"errors"
	"io"
	"iter"
	"unicode/utf8"

	"github.com/csmclaren/charfreq-tools/internal/textcodec"
)

// ErrStreamClosed is returned when writing to a stream after Close.
var ErrStreamClosed = errors.New("ngram stream closed")

// Accumulator owns the frequency tables for one run.
type Accumulator struct {
	tables   Tables
	runes    int64
	streams  int
	nonEmpty int
}

// NewAccumulator returns an accumulator with all six tables created empty.
func NewAccumulator() *Accumulator {
	return &Accumulator{tables: newTables()}
}

// Tables returns the accumulator's tables. They must be treated as read-only.
func (a *Accumulator) Tables() *Tables { return &a.tables }

// Table is shorthand for Tables().Get.
func (a *Accumulator) Table(n int, folded bool) *Table { return a.tables.Get(n, folded) }

// Runes returns the number of code points observed across all streams.
func (a *Accumulator) Runes() int64 { return a.runes }

// Streams returns the number of streams begun.
func (a *Accumulator) Streams() int { return a.streams }

// NonEmptyStreams returns the number of streams that held at least one rune.
func (a *Accumulator) NonEmptyStreams() int { return a.nonEmpty }

// Begin opens a new stream with an empty lookback window.
func (a *Accumulator) Begin() *Stream {
	a.streams++
	return &Stream{acc: a}
}

// ObserveStream feeds every chunk of one logical stream.
func (a *Accumulator) ObserveStream(chunks iter.Seq[string]) {
	s := a.Begin()
	defer s.Close()
	for chunk := range chunks {
		_, _ = s.WriteString(chunk)
	}
}

// ObserveReader decodes r as one stream. Counts gathered before a decode
// failure stay in the tables; the caller is expected to abandon the run.
func (a *Accumulator) ObserveReader(r io.Reader, opts textcodec.Options) error {
	s := a.Begin()
	defer s.Close()

	tr := textcodec.NewReader(r, opts)
	for {
		chunk, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := s.WriteString(chunk); err != nil {
			return err
		}
	}
}

// Stream feeds one text stream into an accumulator.
type Stream struct {
	acc    *Accumulator
	window Window
	runes  int64
	closed bool
	key    [MaxN * utf8.UTFMax]byte
}

// Runes returns the number of code points written to this stream.
func (s *Stream) Runes() int64 { return s.runes }

// WriteString counts every code point of chunk. It implements io.StringWriter.
func (s *Stream) WriteString(chunk string) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	a := s.acc
	for _, cp := range chunk {
		folded := Fold(cp)
		if s.runes == 0 {
			a.nonEmpty++
		}
		s.runes++
		a.runes++

		s.count(0, cp)
		s.count(1, folded)
		s.window.push(cp, folded)
	}
	return len(chunk), nil
}

// count adds the n-grams ending at cp to the variant v (0 raw, 1 folded). It
// runs before the window shifts, so the window still holds the characters
// preceding cp.
func (s *Stream) count(v int, cp rune) {
	tables := &s.acc.tables

	buf := utf8.AppendRune(s.key[:0], cp)
	tables[0][v].add(buf)

	if s.window.size >= 1 {
		buf = utf8.AppendRune(s.key[:0], s.window.prev1[v])
		buf = utf8.AppendRune(buf, cp)
		tables[1][v].add(buf)
	}
	if s.window.size >= 2 {
		buf = utf8.AppendRune(s.key[:0], s.window.prev2[v])
		buf = utf8.AppendRune(buf, s.window.prev1[v])
		buf = utf8.AppendRune(buf, cp)
		tables[2][v].add(buf)
	}
}

// Close ends the stream and discards its lookback window.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.window.Reset()
	return nil
}
