// Package pattern decides which corpus entries take part in a scan.
//
// A Matcher is built from zero or more regular expressions. With no
// expressions every name is accepted; otherwise a name is accepted when any
// expression matches somewhere inside it. Matching is unanchored, so callers
// that want suffix or prefix semantics spell them out (`\.txt$`, `^docs/`).
package pattern
