package delta

import (
	"errors"
	"fmt"
)

// ErrMismatch indicates a delta's declared shape does not match the
// sequence it is applied to or composed with.
var ErrMismatch = errors.New("delta shape mismatch")

// MismatchError reports a delta whose declared shape does not fit.
type MismatchError struct {
	// Reason is a short description of the violated expectation.
	Reason string

	// Want and Got carry the conflicting lengths or offsets.
	Want int
	Got  int

	// BaseLen is the delta's declared base length.
	BaseLen int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("delta mismatch: %s (want %d, got %d, base %d)",
		e.Reason, e.Want, e.Got, e.BaseLen)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }
