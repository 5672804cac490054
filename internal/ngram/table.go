package ngram

import "fmt"

// MaxN is the longest n-gram tracked.
const MaxN = 3

// Entry is one n-gram and its count.
type Entry struct {
	Key   string
	Count int64
}

// Table counts n-grams of a single length and case variant. Entries keep the
// order in which their keys were first seen.
type Table struct {
	n       int
	folded  bool
	index   map[string]int
	entries []Entry
	total   int64
}

func newTable(n int, folded bool) *Table {
	return &Table{n: n, folded: folded, index: make(map[string]int)}
}

// N returns the n-gram length.
func (t *Table) N() int { return t.n }

// Folded reports whether keys were ASCII case-folded.
func (t *Table) Folded() bool { return t.folded }

// Name returns the table's display and file stem, e.g. "2-grams-uc".
func (t *Table) Name() string {
	if t.folded {
		return fmt.Sprintf("%d-grams-uc", t.n)
	}
	return fmt.Sprintf("%d-grams", t.n)
}

// Len returns the number of distinct keys.
func (t *Table) Len() int { return len(t.entries) }

// Total returns the sum of all counts.
func (t *Table) Total() int64 { return t.total }

// Count returns the count for key, zero when absent.
func (t *Table) Count(key string) int64 {
	if i, ok := t.index[key]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Entries returns a copy of the entries in first-seen order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Keys returns the keys in first-seen order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// add increments key by one. The lookup does not allocate for known keys.
func (t *Table) add(key []byte) {
	t.total++
	if i, ok := t.index[string(key)]; ok {
		t.entries[i].Count++
		return
	}
	k := string(key)
	t.index[k] = len(t.entries)
	t.entries = append(t.entries, Entry{Key: k, Count: 1})
}

// Tables holds the six tables indexed by [n-1][folded].
type Tables [MaxN][2]*Table

func newTables() Tables {
	var ts Tables
	for n := 1; n <= MaxN; n++ {
		ts[n-1][0] = newTable(n, false)
		ts[n-1][1] = newTable(n, true)
	}
	return ts
}

// Get returns the table for n and case variant, or nil when n is out of range.
func (ts *Tables) Get(n int, folded bool) *Table {
	if n < 1 || n > MaxN {
		return nil
	}
	if folded {
		return ts[n-1][1]
	}
	return ts[n-1][0]
}

// All returns the tables in canonical order: by n, case-sensitive first.
func (ts *Tables) All() []*Table {
	out := make([]*Table, 0, MaxN*2)
	for n := 0; n < MaxN; n++ {
		out = append(out, ts[n][0], ts[n][1])
	}
	return out
}
