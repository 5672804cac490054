package scan

import "errors"

var (
	// ErrInvalidDestination means the destination is missing or not a directory.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrDestinationBusy means another run holds the destination lock.
	ErrDestinationBusy = errors.New("destination is busy")
)
