package textcodec

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode indicates bytes that are not valid text in the selected encoding.
	ErrDecode = errors.New("invalid text")
	// ErrUnknownEncoding indicates an encoding name that cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrUnknownNewlineMode indicates an unsupported newline mode name.
	ErrUnknownNewlineMode = errors.New("unknown newline mode")
)

// DecodeError reports where a byte stream stopped being valid text.
type DecodeError struct {
	Encoding string
	// Offset counts bytes of the UTF-8 stream consumed before the failure.
	Offset int64
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s: %s decode failed at byte %d", ErrDecode, e.Encoding, e.Offset)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Err }
