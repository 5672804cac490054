package export

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/csmclaren/charfreq-tools/internal/ngram"
)

// Record is one exported (n-gram, count) pair.
type Record = ngram.Entry

// Sorted returns the records of t by count descending. Equal counts keep
// first-seen order.
func Sorted(t *ngram.Table) []Record {
	if t == nil {
		return nil
	}
	records := t.Entries()
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return records
}

// TableName returns "{n}-grams" or "{n}-grams-uc" for the folded variant.
func TableName(n int, folded bool) string {
	if folded {
		return fmt.Sprintf("%d-grams-uc", n)
	}
	return fmt.Sprintf("%d-grams", n)
}

// FileName returns the TSV file name for a table.
func FileName(n int, folded bool) string {
	return TableName(n, folded) + ".tsv"
}

// Sample concatenates the escaped form of the first limit keys of t in code
// point order.
func Sample(t *ngram.Table, limit int) string {
	if t == nil || limit <= 0 {
		return ""
	}
	keys := t.Keys()
	slices.Sort(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}
	var size int
	for _, k := range keys {
		size += len(k)
	}
	out := make([]byte, 0, size)
	for _, k := range keys {
		out = append(out, Escape(k)...)
	}
	return string(out)
}
