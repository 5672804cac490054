// Package scan runs one corpus scan end to end: it validates the
// destination, compiles the name patterns, takes the destination lock,
// feeds every accepted entry through the n-gram accumulator, prints the
// report, exports the tables, and records the run in history.
//
// A run is single-threaded and holds at most one entry open at a time.
// Cancellation is observed between entries.
package scan
