// Package export turns accumulated n-gram tables into sorted, escaped TSV
// files and the printed summary.
//
// Tables are exported in canonical order: unigrams, bigrams, trigrams, each
// case-sensitive first and folded second. For every table the summary line
// "{name} (unique): {k}" is printed, unigram tables add a sample line of
// their keys in code point order, and a blank line follows. The TSV file
// "{name}.tsv" holds one "escaped<TAB>count" line per n-gram, most frequent
// first, ties in first-seen order.
//
// Printing survives a closed reader on the other end of a pipe: the first
// broken-pipe error silences the printer, files are still written, and the
// condition is reported through Summary.OutputClosed.
package export
