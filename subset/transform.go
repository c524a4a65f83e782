package subset

import "fmt"

// ExpandBy re-expresses this subset's marks in terms of a post-edit
// sequence. ins is a subset over the post-edit length whose marked
// positions are the inserted ones; this subset covers the pre-edit length
// (ins.Len() - ins.Count()). Inserted positions come out unmarked, which
// is what lets annotation spans survive edits elsewhere in the document.
func (s Subset) ExpandBy(ins Subset) Subset {
	if s.length != ins.length-ins.Count() {
		panic(fmt.Sprintf("subset: expand base %d does not fit insert shape %d-%d",
			s.length, ins.length, ins.Count()))
	}

	var b Builder
	sc := newSegCursor(s)
	for _, seg := range ins.segments {
		if seg.Marked {
			b.PushSegment(seg.Len, false)
			continue
		}
		n := seg.Len
		for n > 0 {
			r := sc.remaining()
			if r > n {
				r = n
			}
			b.PushSegment(r, sc.marked())
			sc.skip(r)
			n -= r
		}
	}
	b.length = ins.length
	return b.Build()
}

// ShrinkBy projects this subset's marks onto the elements surviving a
// deletion. del is a subset over the same base whose marked positions are
// the deleted ones; marks falling on deleted positions are dropped. This
// is the rebasing direction: re-expressing a subset computed against an
// older revision in terms of the current one.
func (s Subset) ShrinkBy(del Subset) Subset {
	if s.length != del.length {
		panic(fmt.Sprintf("subset: length mismatch %d vs %d", s.length, del.length))
	}

	var b Builder
	ca, cd := newSegCursor(s), newSegCursor(del)
	for !ca.done() {
		n := ca.remaining()
		if r := cd.remaining(); r < n {
			n = r
		}
		if !cd.marked() {
			b.PushSegment(n, ca.marked())
		}
		ca.skip(n)
		cd.skip(n)
	}
	return b.Build()
}
