package ngram

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/csmclaren/charfreq-tools/internal/textcodec"
)

func counts(t *Table) map[string]int64 {
	out := make(map[string]int64, t.Len())
	for _, e := range t.Entries() {
		out[e.Key] = e.Count
	}
	return out
}

func equalCounts(a, b map[string]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func TestNewAccumulatorCreatesAllTables(t *testing.T) {
	acc := NewAccumulator()
	all := acc.Tables().All()
	if len(all) != 6 {
		t.Fatalf("expected 6 tables, got %d", len(all))
	}
	wantNames := []string{"1-grams", "1-grams-uc", "2-grams", "2-grams-uc", "3-grams", "3-grams-uc"}
	for i, table := range all {
		if table == nil {
			t.Fatalf("table %d is nil", i)
		}
		if table.Name() != wantNames[i] {
			t.Fatalf("table %d name = %q, want %q", i, table.Name(), wantNames[i])
		}
		if table.Len() != 0 {
			t.Fatalf("table %s not empty", table.Name())
		}
	}
	if acc.Table(0, false) != nil || acc.Table(4, true) != nil {
		t.Fatal("expected nil for out-of-range n")
	}
}

func TestFold(t *testing.T) {
	tests := map[rune]rune{'a': 'A', 'z': 'Z', 'A': 'A', '1': '1', 'é': 'é', 'ß': 'ß', '`': '`', '{': '{'}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCaseFoldedUnigrams(t *testing.T) {
	acc := NewAccumulator()
	acc.ObserveStream(slices.Values([]string{"aA"}))

	if got := counts(acc.Table(1, true)); !equalCounts(got, map[string]int64{"A": 2}) {
		t.Fatalf("folded unigrams = %v", got)
	}
	if got := counts(acc.Table(1, false)); !equalCounts(got, map[string]int64{"a": 1, "A": 1}) {
		t.Fatalf("raw unigrams = %v", got)
	}
	if got := counts(acc.Table(2, true)); !equalCounts(got, map[string]int64{"AA": 1}) {
		t.Fatalf("folded bigrams = %v", got)
	}
}

func TestWindowSpansChunksWithinStream(t *testing.T) {
	whole := NewAccumulator()
	whole.ObserveStream(slices.Values([]string{"hello world"}))

	split := NewAccumulator()
	split.ObserveStream(slices.Values([]string{"he", "", "l", "lo w", "orld"}))

	for n := 1; n <= MaxN; n++ {
		for _, folded := range []bool{false, true} {
			a := counts(whole.Table(n, folded))
			b := counts(split.Table(n, folded))
			if !equalCounts(a, b) {
				t.Fatalf("n=%d folded=%v differ: %v vs %v", n, folded, a, b)
			}
		}
	}
}

func TestNoNgramsAcrossStreams(t *testing.T) {
	separate := NewAccumulator()
	separate.ObserveStream(slices.Values([]string{"a"}))
	separate.ObserveStream(slices.Values([]string{"b"}))
	if separate.Table(2, false).Total() != 0 {
		t.Fatalf("expected zero bigrams across single-character streams, got %v", counts(separate.Table(2, false)))
	}

	joined := NewAccumulator()
	joined.ObserveStream(slices.Values([]string{"ab"}))
	if got := counts(joined.Table(2, false)); !equalCounts(got, map[string]int64{"ab": 1}) {
		t.Fatalf("joined bigrams = %v", got)
	}
}

func TestTotalsInvariant(t *testing.T) {
	acc := NewAccumulator()
	streams := []string{"", "x", "hello", "ab", "日本語テキスト"}
	var runes int64
	var wantBigrams, wantTrigrams int64
	for _, s := range streams {
		acc.ObserveStream(slices.Values([]string{s}))
		n := int64(len([]rune(s)))
		runes += n
		wantBigrams += max(n-1, 0)
		wantTrigrams += max(n-2, 0)
	}

	if acc.Runes() != runes {
		t.Fatalf("Runes = %d, want %d", acc.Runes(), runes)
	}
	if acc.Table(1, false).Total() != runes || acc.Table(1, true).Total() != runes {
		t.Fatal("unigram totals must equal rune count")
	}
	if got := acc.Table(2, false).Total(); got != wantBigrams {
		t.Fatalf("bigram total = %d, want %d", got, wantBigrams)
	}
	if got := acc.Table(2, false).Total(); got != runes-int64(acc.NonEmptyStreams()) {
		t.Fatalf("bigram total %d != runes - non-empty streams", got)
	}
	if got := acc.Table(3, true).Total(); got != wantTrigrams {
		t.Fatalf("trigram total = %d, want %d", got, wantTrigrams)
	}
	if acc.Streams() != len(streams) || acc.NonEmptyStreams() != len(streams)-1 {
		t.Fatalf("streams = %d, non-empty = %d", acc.Streams(), acc.NonEmptyStreams())
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	acc := NewAccumulator()
	acc.ObserveStream(slices.Values([]string{"cabbac"}))
	if got := acc.Table(1, false).Keys(); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Fatalf("keys = %v", got)
	}
}

func TestStreamClosed(t *testing.T) {
	acc := NewAccumulator()
	s := acc.Begin()
	if _, err := s.WriteString("ab"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := s.WriteString("c"); !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("expected ErrStreamClosed, got %v", err)
	}
	if s.Runes() != 2 {
		t.Fatalf("stream runes = %d", s.Runes())
	}
}

func TestObserveReaderChunkBoundaries(t *testing.T) {
	acc := NewAccumulator()
	input := "ünïcödé"
	err := acc.ObserveReader(iotest.OneByteReader(strings.NewReader(input)), textcodec.Options{Charset: textcodec.UTF8})
	if err != nil {
		t.Fatalf("ObserveReader: %v", err)
	}
	if acc.Runes() != 7 {
		t.Fatalf("Runes = %d, want 7", acc.Runes())
	}
	if got := acc.Table(3, false).Count("ünï"); got != 1 {
		t.Fatalf("trigram count = %d", got)
	}
}

func TestObserveReaderDecodeError(t *testing.T) {
	acc := NewAccumulator()
	err := acc.ObserveReader(bytes.NewReader([]byte("ab\x80")), textcodec.Options{})
	if !errors.Is(err, textcodec.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestObserveReaderNewlines(t *testing.T) {
	acc := NewAccumulator()
	if err := acc.ObserveReader(strings.NewReader("a\r\nb"), textcodec.Options{}); err != nil {
		t.Fatalf("ObserveReader: %v", err)
	}
	if got := counts(acc.Table(2, false)); !equalCounts(got, map[string]int64{"a\n": 1, "\nb": 1}) {
		t.Fatalf("bigrams = %v", got)
	}
}
