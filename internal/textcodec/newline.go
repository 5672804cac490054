package textcodec

import (
	"fmt"
	"strings"
)

// NewlineMode selects how line endings are presented to consumers.
type NewlineMode int

const (
	// NewlineUniversal maps "\r\n" and a lone "\r" to "\n".
	NewlineUniversal NewlineMode = iota
	// NewlineRaw passes line endings through untouched.
	NewlineRaw
)

// ParseNewlineMode accepts "universal" (or empty) and "raw".
func ParseNewlineMode(value string) (NewlineMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "universal":
		return NewlineUniversal, nil
	case "raw":
		return NewlineRaw, nil
	default:
		return NewlineUniversal, fmt.Errorf("%w: %q", ErrUnknownNewlineMode, value)
	}
}

func (m NewlineMode) String() string {
	if m == NewlineRaw {
		return "raw"
	}
	return "universal"
}
