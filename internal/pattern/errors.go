package pattern

import "errors"

// ErrInvalidPattern indicates a filter expression that failed to compile.
var ErrInvalidPattern = errors.New("invalid pattern")
