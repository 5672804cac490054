package source

import "errors"

var (
	// ErrUnsupportedSource indicates a root that is not a directory, a
	// recognised archive, or a regular file.
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrConsumed indicates a second enumeration of a single-pass Source.
	ErrConsumed = errors.New("source already consumed")
)
