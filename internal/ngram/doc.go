// Package ngram accumulates character n-gram frequencies over a corpus.
//
// An Accumulator owns six frequency tables, one per (n, folded) pair for
// n = 1..3, created empty up front. Text arrives one stream at a time: Begin
// opens a Stream with an empty lookback window, WriteString feeds decoded
// chunks, and Close discards the window. Bigrams and trigrams therefore never
// span two streams, no matter how the chunks of one stream are cut.
//
// Folded tables map ASCII a-z to A-Z and leave every other code point alone.
package ngram
