package delta

// Builder assembles a delta element by element, in target order.
// Adjacent copies of contiguous base ranges and adjacent inserts are
// coalesced, so constructor output is always in canonical form.
type Builder struct {
	elements []Element
}

// Copy appends a copy of base range [start, end). Empty ranges are ignored.
func (b *Builder) Copy(start, end int) {
	if start >= end {
		return
	}
	if last := len(b.elements) - 1; last >= 0 {
		if el := &b.elements[last]; el.Kind == OpCopy && el.End == start {
			el.End = end
			return
		}
	}
	b.elements = append(b.elements, Element{Kind: OpCopy, Start: start, End: end})
}

// Insert appends an insertion of text. Empty strings are ignored.
func (b *Builder) Insert(text string) {
	if len(text) == 0 {
		return
	}
	if last := len(b.elements) - 1; last >= 0 {
		if el := &b.elements[last]; el.Kind == OpInsert {
			el.Text += text
			return
		}
	}
	b.elements = append(b.elements, Element{Kind: OpInsert, Text: text})
}

// Build finalizes the delta against a base of length baseLen, validating
// that copies are in bounds, disjoint, and non-decreasing.
func (b *Builder) Build(baseLen int) (Delta, error) {
	pos := 0
	for _, el := range b.elements {
		if el.Kind != OpCopy {
			continue
		}
		if el.Start < pos || el.End > baseLen {
			return Delta{}, &MismatchError{
				Reason:  "copy ranges out of bounds or reordered",
				Want:    pos,
				Got:     el.Start,
				BaseLen: baseLen,
			}
		}
		pos = el.End
	}

	elements := b.elements
	b.elements = nil
	return Delta{elements: elements, baseLen: baseLen}, nil
}
