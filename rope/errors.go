package rope

import (
	"errors"
	"fmt"
)

// Errors returned by rope operations.
var (
	// ErrBoundary indicates an offset is not aligned to a unit boundary,
	// such as splitting inside a multi-byte code point.
	ErrBoundary = errors.New("offset not on a unit boundary")

	// ErrRange indicates an interval is out of bounds or end < start.
	ErrRange = errors.New("interval out of range")
)

// BoundaryError reports an offset that falls inside a multi-unit element.
type BoundaryError struct {
	// Offset is the rejected offset.
	Offset int

	// Unit names the metric whose boundary was violated ("rune",
	// "grapheme", "utf16").
	Unit string
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("offset %d is not a %s boundary", e.Offset, e.Unit)
}

func (e *BoundaryError) Unwrap() error { return ErrBoundary }

// RangeError reports an interval that does not fit the rope it addresses.
type RangeError struct {
	Start int
	End   int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("interval [%d:%d) invalid for length %d", e.Start, e.End, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrRange }
