// Package interval provides the half-open byte range type used to address
// edits, slices, and spans throughout textcore.
package interval

import "fmt"

// Interval represents a byte range.
// Start is inclusive, End is exclusive: [Start, End).
type Interval struct {
	Start int // Inclusive start position
	End   int // Exclusive end position
}

// New creates an Interval from start and end offsets.
func New(start, end int) Interval {
	return Interval{Start: start, End: end}
}

// Point creates an empty interval at the given offset.
func Point(offset int) Interval {
	return Interval{Start: offset, End: offset}
}

// String returns a human-readable representation of the interval.
func (iv Interval) String() string {
	return fmt.Sprintf("[%d:%d)", iv.Start, iv.End)
}

// Len returns the length of the interval in bytes.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// IsEmpty returns true if the interval has zero length.
func (iv Interval) IsEmpty() bool {
	return iv.Start >= iv.End
}

// IsValid returns true if the interval is well-formed (0 <= Start <= End).
func (iv Interval) IsValid() bool {
	return iv.Start >= 0 && iv.Start <= iv.End
}

// Contains returns true if the given offset is within the interval.
func (iv Interval) Contains(offset int) bool {
	return offset >= iv.Start && offset < iv.End
}

// ContainsInterval returns true if other is entirely within this interval.
func (iv Interval) ContainsInterval(other Interval) bool {
	return other.Start >= iv.Start && other.End <= iv.End
}

// Overlaps returns true if this interval overlaps with another.
// Empty intervals never overlap anything.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.IsEmpty() || other.IsEmpty() {
		return false
	}
	return iv.Start < other.End && other.Start < iv.End
}

// Intersect returns the intersection of two intervals.
// If they do not overlap the result is an empty interval at the seam.
func (iv Interval) Intersect(other Interval) Interval {
	start := iv.Start
	if other.Start > start {
		start = other.Start
	}
	end := iv.End
	if other.End < end {
		end = other.End
	}
	if start >= end {
		return Interval{Start: start, End: start}
	}
	return Interval{Start: start, End: end}
}

// Union returns the smallest interval containing both intervals.
func (iv Interval) Union(other Interval) Interval {
	if iv.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return iv
	}
	start := iv.Start
	if other.Start < start {
		start = other.Start
	}
	end := iv.End
	if other.End > end {
		end = other.End
	}
	return Interval{Start: start, End: end}
}

// Translate returns the interval shifted forward by delta bytes.
func (iv Interval) Translate(delta int) Interval {
	return Interval{Start: iv.Start + delta, End: iv.End + delta}
}

// TranslateNeg returns the interval shifted backward by delta bytes.
func (iv Interval) TranslateNeg(delta int) Interval {
	return iv.Translate(-delta)
}

// Clamp normalizes the interval against a sequence of the given length.
// Start and End are clamped into [0, length] and End is raised to Start
// if the interval is inverted.
func (iv Interval) Clamp(length int) Interval {
	out := iv
	if out.Start < 0 {
		out.Start = 0
	}
	if out.Start > length {
		out.Start = length
	}
	if out.End < out.Start {
		out.End = out.Start
	}
	if out.End > length {
		out.End = length
	}
	return out
}

// Prefix returns the portion of the interval before offset.
func (iv Interval) Prefix(offset int) Interval {
	out := iv
	if out.End > offset {
		out.End = offset
	}
	if out.Start > out.End {
		out.Start = out.End
	}
	return out
}

// Suffix returns the portion of the interval at or after offset.
func (iv Interval) Suffix(offset int) Interval {
	out := iv
	if out.Start < offset {
		out.Start = offset
	}
	if out.End < out.Start {
		out.End = out.Start
	}
	return out
}
