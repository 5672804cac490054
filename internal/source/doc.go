// Package source enumerates the files of a corpus.
//
// A corpus root is one of four kinds, detected once when the Source is
// opened: a directory tree, a tar archive (plain, gzip, bzip2, xz or zstd
// compressed), a zip archive, or a single regular file. Each walks the
// entries in a fixed order, applies the name matcher, and hands every
// accepted entry to a callback together with an open reader. The reader is
// closed as soon as the callback returns, so at most one corpus file is open
// at a time regardless of corpus size.
//
// A Source is single-pass: Each may be called once.
package source
