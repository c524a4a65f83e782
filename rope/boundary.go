package rope

import "github.com/rivo/uniseg"

// graphemeScanWindow bounds how much context is re-segmented around an
// offset when answering grapheme boundary queries. Real clusters are far
// smaller than this.
const graphemeScanWindow = 512

// PrevRuneBoundary returns the largest UTF-8 boundary strictly before
// offset, or 0 at the start.
func (r Rope) PrevRuneBoundary(offset int) int {
	if offset > r.Len() {
		offset = r.Len()
	}
	if offset <= 0 {
		return 0
	}
	offset--
	for offset > 0 {
		b, ok := r.ByteAt(offset)
		if !ok || isUTF8Start(b) {
			break
		}
		offset--
	}
	return offset
}

// SnapToRuneBoundary returns offset unchanged when it already lies on a
// UTF-8 boundary, otherwise the start of the code point containing it.
// Out-of-range offsets clamp to [0, Len()].
func (r Rope) SnapToRuneBoundary(offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset >= r.Len() {
		return r.Len()
	}
	for offset > 0 && !r.IsRuneBoundary(offset) {
		offset--
	}
	return offset
}

// NextRuneBoundary returns the smallest UTF-8 boundary strictly after
// offset, or Len() at the end.
func (r Rope) NextRuneBoundary(offset int) int {
	if offset < 0 {
		offset = 0
	}
	n := r.Len()
	if offset >= n {
		return n
	}
	offset++
	for offset < n {
		b, ok := r.ByteAt(offset)
		if !ok || isUTF8Start(b) {
			break
		}
		offset++
	}
	return offset
}

// IsGraphemeBoundary reports whether offset lies on an extended grapheme
// cluster boundary. 0 and Len() are always boundaries.
func (r Rope) IsGraphemeBoundary(offset int) bool {
	if offset <= 0 || offset >= r.Len() {
		return true
	}
	if !r.IsRuneBoundary(offset) {
		return false
	}

	anchor := r.graphemeAnchor(offset)
	end := offset + graphemeScanWindow
	if end > r.Len() {
		end = r.Len()
	}

	g := uniseg.NewGraphemes(r.SliceString(anchor, end))
	for g.Next() {
		_, to := g.Positions()
		switch {
		case anchor+to == offset:
			return true
		case anchor+to > offset:
			return false
		}
	}
	return false
}

// PrevGraphemeBoundary returns the largest grapheme boundary strictly
// before offset, or 0 at the start.
func (r Rope) PrevGraphemeBoundary(offset int) int {
	if offset > r.Len() {
		offset = r.Len()
	}
	if offset <= 0 {
		return 0
	}

	anchor := r.graphemeAnchor(offset)
	end := offset + graphemeScanWindow
	if end > r.Len() {
		end = r.Len()
	}

	g := uniseg.NewGraphemes(r.SliceString(anchor, end))
	prev := anchor
	for g.Next() {
		_, to := g.Positions()
		if anchor+to >= offset {
			break
		}
		prev = anchor + to
	}
	return prev
}

// NextGraphemeBoundary returns the smallest grapheme boundary strictly
// after offset, or Len() at the end.
func (r Rope) NextGraphemeBoundary(offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset >= r.Len() {
		return r.Len()
	}

	anchor := r.graphemeAnchor(offset)
	for window := graphemeScanWindow; ; window *= 2 {
		end := offset + window
		if end > r.Len() {
			end = r.Len()
		}

		g := uniseg.NewGraphemes(r.SliceString(anchor, end))
		for g.Next() {
			_, to := g.Positions()
			if anchor+to > offset {
				return anchor + to
			}
		}

		if end == r.Len() {
			return r.Len()
		}
	}
}

// graphemeAnchor finds a safe segmentation start before offset: the start
// of the containing line, or a nearby rune boundary for very long lines.
func (r Rope) graphemeAnchor(offset int) int {
	anchor := r.OffsetOfLine(r.LineOfOffset(offset))
	if offset-anchor <= graphemeScanWindow {
		return anchor
	}
	anchor = offset - graphemeScanWindow
	for anchor > 0 && !r.IsRuneBoundary(anchor) {
		anchor--
	}
	return anchor
}
