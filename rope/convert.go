package rope

// Metric conversion. All conversions descend the tree summing cached
// summaries, then finish inside a single chunk, so they cost O(log n) plus
// one chunk scan. Offsets that land inside a multi-unit element are
// rejected with BoundaryError; callers snap explicitly first.

// OffsetToUTF16 converts a byte offset to a UTF-16 code unit offset.
func (r Rope) OffsetToUTF16(offset int) (int, error) {
	if offset < 0 || offset > r.Len() {
		return 0, &RangeError{Start: offset, End: offset, Len: r.Len()}
	}
	if offset == 0 {
		return 0, nil
	}
	if offset == r.Len() {
		return r.Summary().UTF16, nil
	}
	abs := offset

	n := r.root
	units := 0
	for !n.isLeaf() {
		idx, rel := n.childAtOffset(offset)
		for i := 0; i < idx; i++ {
			units += n.childSums[i].UTF16
		}
		n = n.children[idx]
		offset = rel
	}

	for _, c := range n.chunks {
		if offset >= c.Len() {
			units += c.Summary().UTF16
			offset -= c.Len()
			continue
		}
		for i, ch := range c.String() {
			if i == offset {
				return units, nil
			}
			if i > offset {
				break
			}
			if ch <= 0xFFFF {
				units++
			} else {
				units += 2
			}
		}
		return 0, &BoundaryError{Offset: abs, Unit: "rune"}
	}
	return units, nil
}

// UTF16ToOffset converts a UTF-16 code unit offset to a byte offset.
// An offset between the two units of a surrogate pair is rejected.
func (r Rope) UTF16ToOffset(units int) (int, error) {
	total := r.Summary().UTF16
	if units < 0 || units > total {
		return 0, &RangeError{Start: units, End: units, Len: total}
	}
	if units == 0 {
		return 0, nil
	}
	if units == total {
		return r.Len(), nil
	}

	n := r.root
	offset := 0
	for !n.isLeaf() {
		for i, sum := range n.childSums {
			if sum.UTF16 > units {
				n = n.children[i]
				break
			}
			units -= sum.UTF16
			offset += sum.Bytes
		}
	}

	for _, c := range n.chunks {
		if c.Summary().UTF16 <= units {
			units -= c.Summary().UTF16
			offset += c.Len()
			continue
		}
		acc := 0
		for i, ch := range c.String() {
			if acc == units {
				return offset + i, nil
			}
			if ch <= 0xFFFF {
				acc++
			} else {
				if acc+1 == units {
					// Target lands between surrogate halves.
					return 0, &BoundaryError{Offset: units, Unit: "utf16"}
				}
				acc += 2
			}
		}
		return offset + c.Len(), nil
	}
	return offset, nil
}

// OffsetToPoint converts a byte offset to a line/column position.
// Offsets are clamped to [0, Len()].
func (r Rope) OffsetToPoint(offset int) Point {
	if offset <= 0 {
		return Point{}
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	line := r.LineOfOffset(offset)
	return Point{Line: line, Column: offset - r.OffsetOfLine(line)}
}

// PointToOffset converts a line/column position to a byte offset.
// Columns past the end of the line clamp to the line end.
func (r Rope) PointToOffset(p Point) int {
	start := r.OffsetOfLine(p.Line)
	end := r.LineEndOffset(p.Line)
	if p.Column >= end-start {
		return end
	}
	return start + p.Column
}
