// Package subset provides run-length-encoded membership sets over a base
// sequence. A Subset marks which positions of a sequence of length N belong
// to a derived subsequence, without ever materializing a per-element array.
// It is the provenance structure deltas use to describe which positions
// they inserted or deleted, and the mechanism by which annotation spans
// survive edits elsewhere in a document.
package subset

import (
	"fmt"
	"strings"

	"github.com/dshills/textcore/interval"
)

// Segment is a run of consecutive positions sharing a membership flag.
type Segment struct {
	Len    int
	Marked bool
}

// Subset is an RLE sequence of segments covering a base length exactly.
// Adjacent segments always differ in their flag. The zero value is the
// empty subset over a zero-length base.
type Subset struct {
	segments []Segment
	length   int
}

// Empty returns the subset of length n with nothing marked.
func Empty(n int) Subset {
	var b Builder
	b.PushSegment(n, false)
	return b.Build()
}

// Full returns the subset of length n with everything marked.
func Full(n int) Subset {
	var b Builder
	b.PushSegment(n, true)
	return b.Build()
}

// Mark returns the subset of length n with the interval iv marked.
// The interval is clamped to [0, n).
func Mark(n int, iv interval.Interval) Subset {
	iv = iv.Clamp(n)
	var b Builder
	b.PushSegment(iv.Start, false)
	b.PushSegment(iv.Len(), true)
	b.PushSegment(n-iv.End, false)
	return b.Build()
}

// Len returns the length of the base sequence.
func (s Subset) Len() int { return s.length }

// Count returns the number of marked positions.
func (s Subset) Count() int {
	n := 0
	for _, seg := range s.segments {
		if seg.Marked {
			n += seg.Len
		}
	}
	return n
}

// IsEmpty returns true if no position is marked.
func (s Subset) IsEmpty() bool {
	for _, seg := range s.segments {
		if seg.Marked {
			return false
		}
	}
	return true
}

// IsFull returns true if every position is marked.
func (s Subset) IsFull() bool {
	for _, seg := range s.segments {
		if !seg.Marked && seg.Len > 0 {
			return false
		}
	}
	return true
}

// Segments returns the run-length segments in order.
func (s Subset) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Ranges materializes the marked runs as intervals.
func (s Subset) Ranges() []interval.Interval {
	var out []interval.Interval
	pos := 0
	for _, seg := range s.segments {
		if seg.Marked {
			out = append(out, interval.New(pos, pos+seg.Len))
		}
		pos += seg.Len
	}
	return out
}

// Equals reports whether two subsets mark the same positions over the
// same base length.
func (s Subset) Equals(other Subset) bool {
	if s.length != other.length || len(s.segments) != len(other.segments) {
		return false
	}
	for i, seg := range s.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// String renders the subset as runs, e.g. "12+3-7" marking 3 of 22.
func (s Subset) String() string {
	var sb strings.Builder
	for _, seg := range s.segments {
		if seg.Marked {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
		fmt.Fprintf(&sb, "%d", seg.Len)
	}
	if sb.Len() == 0 {
		sb.WriteString("(empty)")
	}
	return sb.String()
}

// Complement returns the subset marking exactly the unmarked positions.
func (s Subset) Complement() Subset {
	var b Builder
	for _, seg := range s.segments {
		b.PushSegment(seg.Len, !seg.Marked)
	}
	b.length = s.length // preserve zero-length bases
	return b.Build()
}

// Union returns the subset marking positions marked in either operand.
// The operands must cover the same base length.
func (s Subset) Union(other Subset) Subset {
	return s.zip(other, func(a, b bool) bool { return a || b })
}

// Intersect returns the subset marking positions marked in both operands.
// The operands must cover the same base length.
func (s Subset) Intersect(other Subset) Subset {
	return s.zip(other, func(a, b bool) bool { return a && b })
}

// zip merges two subsets segment-wise; O(runs), never O(n).
func (s Subset) zip(other Subset, combine func(a, b bool) bool) Subset {
	if s.length != other.length {
		panic(fmt.Sprintf("subset: length mismatch %d vs %d", s.length, other.length))
	}

	var b Builder
	ca, cb := newSegCursor(s), newSegCursor(other)
	for !ca.done() {
		n := ca.remaining()
		if r := cb.remaining(); r < n {
			n = r
		}
		b.PushSegment(n, combine(ca.marked(), cb.marked()))
		ca.skip(n)
		cb.skip(n)
	}
	b.length = s.length
	return b.Build()
}

// segCursor walks a subset's segments, consuming arbitrary counts.
type segCursor struct {
	segments []Segment
	idx      int
	consumed int // within segments[idx]
}

func newSegCursor(s Subset) *segCursor {
	c := &segCursor{segments: s.segments}
	c.skipEmpty()
	return c
}

func (c *segCursor) done() bool { return c.idx >= len(c.segments) }

func (c *segCursor) remaining() int {
	if c.done() {
		return 0
	}
	return c.segments[c.idx].Len - c.consumed
}

func (c *segCursor) marked() bool {
	if c.done() {
		return false
	}
	return c.segments[c.idx].Marked
}

func (c *segCursor) skip(n int) {
	for n > 0 && !c.done() {
		r := c.remaining()
		if n < r {
			c.consumed += n
			return
		}
		n -= r
		c.idx++
		c.consumed = 0
	}
	c.skipEmpty()
}

func (c *segCursor) skipEmpty() {
	for c.idx < len(c.segments) && c.segments[c.idx].Len == c.consumed {
		c.idx++
		c.consumed = 0
	}
}

// Builder assembles a subset from segments, merging adjacent runs with the
// same flag and dropping empty ones.
type Builder struct {
	segments []Segment
	length   int
}

// PushSegment appends a run of n positions with the given flag.
// Runs of zero length are ignored.
func (b *Builder) PushSegment(n int, marked bool) {
	if n <= 0 {
		return
	}
	b.length += n
	if last := len(b.segments) - 1; last >= 0 && b.segments[last].Marked == marked {
		b.segments[last].Len += n
		return
	}
	b.segments = append(b.segments, Segment{Len: n, Marked: marked})
}

// Build returns the assembled subset.
func (b *Builder) Build() Subset {
	return Subset{segments: b.segments, length: b.length}
}
