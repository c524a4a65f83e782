package rope

import "unicode/utf8"

// Cursor is a resumable position within a rope. It supports O(log n)
// seeking by offset or line and rune-wise movement, and is the traversal
// primitive search and outline consumers resume from.
type Cursor struct {
	rope   Rope
	offset int
}

// NewCursor creates a cursor at the start of the rope.
func NewCursor(r Rope) *Cursor {
	return &Cursor{rope: r}
}

// Offset returns the current byte offset.
func (c *Cursor) Offset() int { return c.offset }

// Point returns the current line/column position.
func (c *Cursor) Point() Point { return c.rope.OffsetToPoint(c.offset) }

// AtStart returns true if the cursor is at the start of the rope.
func (c *Cursor) AtStart() bool { return c.offset == 0 }

// AtEnd returns true if the cursor is at the end of the rope.
func (c *Cursor) AtEnd() bool { return c.offset >= c.rope.Len() }

// SeekOffset moves the cursor to the given byte offset, snapping backward
// to a rune boundary. Returns false if the offset is out of range.
func (c *Cursor) SeekOffset(offset int) bool {
	if offset < 0 || offset > c.rope.Len() {
		return false
	}
	c.offset = c.rope.SnapToRuneBoundary(offset)
	return true
}

// SeekLine moves the cursor to the start of the given line.
// Returns false if the line is out of range.
func (c *Cursor) SeekLine(line int) bool {
	if line < 0 || line >= c.rope.LineCount() {
		return false
	}
	c.offset = c.rope.OffsetOfLine(line)
	return true
}

// Rune returns the rune at the current position and its byte size.
// Returns (0, 0) at the end.
func (c *Cursor) Rune() (rune, int) {
	if c.AtEnd() {
		return 0, 0
	}
	end := c.offset + utf8.UTFMax
	if end > c.rope.Len() {
		end = c.rope.Len()
	}
	return utf8.DecodeRuneInString(c.rope.SliceString(c.offset, end))
}

// Next advances the cursor by one rune. Returns false at the end.
func (c *Cursor) Next() bool {
	if c.AtEnd() {
		return false
	}
	_, size := c.Rune()
	if size == 0 {
		return false
	}
	c.offset += size
	return true
}

// Prev moves the cursor back by one rune. Returns false at the start.
func (c *Cursor) Prev() bool {
	if c.AtStart() {
		return false
	}
	c.offset = c.rope.PrevRuneBoundary(c.offset)
	return true
}

// Clone returns a copy of the cursor at the same position.
func (c *Cursor) Clone() *Cursor {
	return &Cursor{rope: c.rope, offset: c.offset}
}
