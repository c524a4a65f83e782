// Package delta provides edit scripts describing a transformation from one
// rope to another as an ordered list of copy and insert operations. Deltas
// are the unit of editing history: they apply to a base rope, compose with
// later deltas, and invert into undo deltas given the base content.
package delta

import (
	"fmt"
	"strings"

	"github.com/dshills/textcore/interval"
	"github.com/dshills/textcore/rope"
	"github.com/dshills/textcore/subset"
)

// OpKind categorizes a delta element.
type OpKind uint8

const (
	// OpCopy reuses a range of the base sequence unchanged.
	OpCopy OpKind = iota

	// OpInsert contributes new content absent from the base.
	OpInsert
)

// String returns a human-readable representation of the kind.
func (k OpKind) String() string {
	switch k {
	case OpCopy:
		return "copy"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Element is one operation of a delta: either a copy of base range
// [Start, End), or an insertion of Text.
type Element struct {
	Kind  OpKind
	Start int    // OpCopy: inclusive base start
	End   int    // OpCopy: exclusive base end
	Text  string // OpInsert: inserted content
}

// Len returns the number of target bytes this element contributes.
func (e Element) Len() int {
	if e.Kind == OpInsert {
		return len(e.Text)
	}
	return e.End - e.Start
}

// Delta is an ordered sequence of elements that tiles the target sequence
// exactly once. Copy ranges are disjoint and non-decreasing against the
// base. A Delta is immutable once built.
type Delta struct {
	elements []Element
	baseLen  int
}

// BaseLen returns the length of the base sequence the delta applies to.
func (d Delta) BaseLen() int { return d.baseLen }

// TargetLen returns the length of the sequence the delta produces.
func (d Delta) TargetLen() int {
	n := 0
	for _, el := range d.elements {
		n += el.Len()
	}
	return n
}

// Elements returns the delta's operations in order.
func (d Delta) Elements() []Element {
	out := make([]Element, len(d.elements))
	copy(out, d.elements)
	return out
}

// IsIdentity returns true if applying the delta reproduces the base.
func (d Delta) IsIdentity() bool {
	switch len(d.elements) {
	case 0:
		return d.baseLen == 0
	case 1:
		el := d.elements[0]
		return el.Kind == OpCopy && el.Start == 0 && el.End == d.baseLen
	default:
		return false
	}
}

// String returns a compact representation for debugging, e.g.
// "base=11 copy[0:6) insert\"Symphony\"".
func (d Delta) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "base=%d", d.baseLen)
	for _, el := range d.elements {
		if el.Kind == OpCopy {
			fmt.Fprintf(&sb, " copy[%d:%d)", el.Start, el.End)
		} else {
			text := el.Text
			if len(text) > 20 {
				text = text[:17] + "..."
			}
			fmt.Fprintf(&sb, " insert%q", text)
		}
	}
	return sb.String()
}

// Identity returns the delta that maps a base of length n to itself.
func Identity(n int) Delta {
	var b Builder
	b.Copy(0, n)
	d, _ := b.Build(n)
	return d
}

// FromInsert returns the delta inserting text at offset into a base of
// length baseLen.
func FromInsert(offset int, text string, baseLen int) (Delta, error) {
	if offset < 0 || offset > baseLen {
		return Delta{}, &rope.RangeError{Start: offset, End: offset, Len: baseLen}
	}
	var b Builder
	b.Copy(0, offset)
	b.Insert(text)
	b.Copy(offset, baseLen)
	return b.Build(baseLen)
}

// FromDelete returns the delta removing the interval iv from a base of
// length baseLen.
func FromDelete(iv interval.Interval, baseLen int) (Delta, error) {
	if !iv.IsValid() || iv.End > baseLen {
		return Delta{}, &rope.RangeError{Start: iv.Start, End: iv.End, Len: baseLen}
	}
	var b Builder
	b.Copy(0, iv.Start)
	b.Copy(iv.End, baseLen)
	return b.Build(baseLen)
}

// FromReplace returns the delta replacing the interval iv with text.
// It is the single-point composition of a delete and an insert.
func FromReplace(iv interval.Interval, text string, baseLen int) (Delta, error) {
	if !iv.IsValid() || iv.End > baseLen {
		return Delta{}, &rope.RangeError{Start: iv.Start, End: iv.End, Len: baseLen}
	}
	var b Builder
	b.Copy(0, iv.Start)
	b.Insert(text)
	b.Copy(iv.End, baseLen)
	return b.Build(baseLen)
}

// Apply transforms the base rope into the delta's target. Copies slice the
// base and concatenate by reference; inserts concatenate fresh leaves —
// unrelated content is shared, never copied.
func (d Delta) Apply(base rope.Rope) (rope.Rope, error) {
	if base.Len() != d.baseLen {
		return rope.Rope{}, &MismatchError{
			Reason:  "base length differs from delta base",
			Want:    d.baseLen,
			Got:     base.Len(),
			BaseLen: d.baseLen,
		}
	}

	out := rope.New()
	for _, el := range d.elements {
		if el.Kind == OpInsert {
			out = out.Concat(rope.FromString(el.Text))
			continue
		}
		if el.Start < 0 || el.End > d.baseLen || el.Start > el.End {
			return rope.Rope{}, &MismatchError{
				Reason:  "copy range outside base",
				Want:    d.baseLen,
				Got:     el.End,
				BaseLen: d.baseLen,
			}
		}
		out = out.Concat(base.Slice(interval.New(el.Start, el.End)))
	}
	return out, nil
}

// InsertedSubset returns the subset of the target sequence whose marked
// positions were contributed by inserts.
func (d Delta) InsertedSubset() subset.Subset {
	var b subset.Builder
	for _, el := range d.elements {
		b.PushSegment(el.Len(), el.Kind == OpInsert)
	}
	s := b.Build()
	if s.Len() == 0 && d.TargetLen() == 0 {
		return subset.Empty(0)
	}
	return s
}

// DeletedSubset returns the subset of the base sequence whose marked
// positions are not copied into the target. It requires the delta's
// copies to be non-decreasing, which holds for every constructor- and
// composition-produced delta.
func (d Delta) DeletedSubset() (subset.Subset, error) {
	var b subset.Builder
	pos := 0
	for _, el := range d.elements {
		if el.Kind != OpCopy {
			continue
		}
		if el.Start < pos {
			return subset.Subset{}, &MismatchError{
				Reason:  "copies are reordered",
				Want:    pos,
				Got:     el.Start,
				BaseLen: d.baseLen,
			}
		}
		b.PushSegment(el.Start-pos, true)
		b.PushSegment(el.End-el.Start, false)
		pos = el.End
	}
	b.PushSegment(d.baseLen-pos, true)
	s := b.Build()
	if s.Len() == 0 && d.baseLen == 0 {
		return subset.Empty(0), nil
	}
	return s, nil
}

// TransformExpand re-expresses a subset over the delta's base in terms of
// the delta's target, with inserted positions unmarked. The subset must be
// over positions the delta copies entirely; positions it deletes are
// dropped first via the deleted subset.
func TransformExpand(s subset.Subset, d Delta) (subset.Subset, error) {
	del, err := d.DeletedSubset()
	if err != nil {
		return subset.Subset{}, err
	}
	return s.ShrinkBy(del).ExpandBy(d.InsertedSubset()), nil
}

// TransformShrink projects a subset over the delta's target back onto the
// delta's base: marks on inserted content are dropped, and positions the
// delta deleted come back unmarked.
func TransformShrink(s subset.Subset, d Delta) (subset.Subset, error) {
	del, err := d.DeletedSubset()
	if err != nil {
		return subset.Subset{}, err
	}
	onBase := s.ShrinkBy(d.InsertedSubset())
	// The deleted subset doubles as the insert shape restoring those
	// positions: deleted base positions come back as unmarked slots.
	return onBase.ExpandBy(del), nil
}
