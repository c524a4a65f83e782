package rope

import (
	"io"
	"strings"

	"github.com/dshills/textcore/interval"
)

// Rope is an immutable, structurally shared text sequence.
// Operations return new Rope values; the original is never modified, so any
// number of goroutines may read a published rope concurrently.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf(nil)}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return fromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// fromChunks builds a balanced rope bottom-up from ordered chunks.
func fromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*node
	for i := 0; i < len(chunks); i += MaxLeafChunks {
		end := i + MaxLeafChunks
		if end > len(chunks) {
			end = len(chunks)
		}
		leaf := make([]Chunk, end-i)
		copy(leaf, chunks[i:end])
		leaves = append(leaves, newLeaf(leaf))
	}

	nodes := leaves
	for len(nodes) > 1 {
		var parents []*node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := i + MaxChildren
			if end > len(nodes) {
				end = len(nodes)
			}
			parents = append(parents, newInternal(nodes[i:end:end]))
		}
		nodes = parents
	}

	return Rope{root: nodes[0]}
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.byteLen()
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool { return r.Len() == 0 }

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	return r.Summary().Lines + 1
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() Summary {
	if r.root == nil {
		return Summary{}.Zero()
	}
	return r.root.summary
}

// String linearizes the rope. This is O(n); call it only at I/O boundaries
// such as file save or display, never per edit.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendTo(&sb)
	return sb.String()
}

// SliceString returns the text in the byte range [start, end) as a string.
// Bounds are clamped.
func (r Rope) SliceString(start, end int) string {
	if r.root == nil || start >= end || start >= r.Len() {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Slice returns the sub-rope covering iv, sharing structure with r.
// The interval is clamped to the rope's length.
func (r Rope) Slice(iv interval.Interval) Rope {
	iv = iv.Clamp(r.Len())
	if iv.IsEmpty() {
		return New()
	}
	if iv.Start == 0 && iv.End == r.Len() {
		return r
	}
	_, rest := r.Split(iv.Start)
	mid, _ := rest.Split(iv.Len())
	return mid
}

// SliceChecked is Slice with strict interval validation.
func (r Rope) SliceChecked(iv interval.Interval) (Rope, error) {
	if err := r.checkInterval(iv); err != nil {
		return Rope{}, err
	}
	return r.Slice(iv), nil
}

// Split splits the rope at offset: left holds [0, offset), right the rest.
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat concatenates two ropes. The empty rope is the identity.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Edit replaces the interval iv with text, returning a new rope.
// It is defined as concat(slice(0, start), text, slice(end, len)), so it
// inherits the tree invariants from Split and Concat by construction.
// The interval is clamped; use EditChecked for strict validation.
func (r Rope) Edit(iv interval.Interval, text string) Rope {
	iv = iv.Clamp(r.Len())
	if iv.IsEmpty() && len(text) == 0 {
		return r
	}

	left, rest := r.Split(iv.Start)
	_, right := rest.Split(iv.Len())

	if len(text) == 0 {
		return left.Concat(right)
	}
	return left.Concat(FromString(text)).Concat(right)
}

// EditChecked is Edit with strict interval and boundary validation:
// a malformed or out-of-bounds interval yields RangeError, an interval
// endpoint inside a multi-byte code point yields BoundaryError.
func (r Rope) EditChecked(iv interval.Interval, text string) (Rope, error) {
	if err := r.checkInterval(iv); err != nil {
		return Rope{}, err
	}
	return r.Edit(iv, text), nil
}

func (r Rope) checkInterval(iv interval.Interval) error {
	if !iv.IsValid() || iv.End > r.Len() {
		return &RangeError{Start: iv.Start, End: iv.End, Len: r.Len()}
	}
	if !r.IsRuneBoundary(iv.Start) {
		return &BoundaryError{Offset: iv.Start, Unit: "rune"}
	}
	if !r.IsRuneBoundary(iv.End) {
		return &BoundaryError{Offset: iv.End, Unit: "rune"}
	}
	return nil
}

// Insert inserts text at the given byte offset.
func (r Rope) Insert(offset int, text string) Rope {
	return r.Edit(interval.Point(offset), text)
}

// Delete removes the text in [start, end).
func (r Rope) Delete(start, end int) Rope {
	return r.Edit(interval.New(start, end), "")
}

// Replace replaces [start, end) with text.
func (r Rope) Replace(start, end int, text string) Rope {
	return r.Edit(interval.New(start, end), text)
}

// ByteAt returns the byte at the given offset.
func (r Rope) ByteAt(offset int) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}

	n := r.root
	for !n.isLeaf() {
		idx, rel := n.childAtOffset(offset)
		n = n.children[idx]
		offset = rel
	}

	for _, c := range n.chunks {
		if offset < c.Len() {
			return c.String()[offset], true
		}
		offset -= c.Len()
	}
	return 0, false
}

// IsRuneBoundary reports whether offset lies on a UTF-8 code point boundary.
// 0 and Len() are always boundaries.
func (r Rope) IsRuneBoundary(offset int) bool {
	if offset <= 0 || offset >= r.Len() {
		return true
	}
	if r.Summary().Flags&FlagASCII != 0 {
		return true
	}
	b, ok := r.ByteAt(offset)
	return ok && isUTF8Start(b)
}

// OffsetOfLine returns the byte offset of the start of the given line.
// Lines are 0-indexed; out-of-range lines clamp to the rope boundaries.
func (r Rope) OffsetOfLine(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line > r.Summary().Lines {
		return r.Len()
	}

	// Descend to the position just after the line-th newline.
	n := r.root
	offset := 0
	remaining := line
	for !n.isLeaf() {
		for i, sum := range n.childSums {
			if sum.Lines >= remaining {
				n = n.children[i]
				break
			}
			remaining -= sum.Lines
			offset += sum.Bytes
		}
	}

	for _, c := range n.chunks {
		if c.Summary().Lines >= remaining {
			return offset + c.newlines.Position(remaining-1) + 1
		}
		remaining -= c.Summary().Lines
		offset += c.Len()
	}
	return r.Len()
}

// LineOfOffset returns the 0-indexed line containing the byte offset.
// Offsets are clamped to [0, Len()].
func (r Rope) LineOfOffset(offset int) int {
	if r.root == nil || offset <= 0 {
		return 0
	}
	if offset >= r.Len() {
		return r.Summary().Lines
	}

	n := r.root
	lines := 0
	for !n.isLeaf() {
		idx, rel := n.childAtOffset(offset)
		for i := 0; i < idx; i++ {
			lines += n.childSums[i].Lines
		}
		n = n.children[idx]
		offset = rel
	}

	for _, c := range n.chunks {
		if offset <= c.Len() {
			return lines + c.newlines.CountBefore(offset)
		}
		lines += c.Summary().Lines
		offset -= c.Len()
	}
	return lines
}

// LineStartOffset is OffsetOfLine; kept for symmetry with LineEndOffset.
func (r Rope) LineStartOffset(line int) int {
	return r.OffsetOfLine(line)
}

// LineEndOffset returns the byte offset of the end of the given line,
// excluding the newline character.
func (r Rope) LineEndOffset(line int) int {
	lines := r.Summary().Lines
	if line >= lines {
		return r.Len()
	}
	next := r.OffsetOfLine(line + 1)
	if next > 0 {
		return next - 1
	}
	return 0
}

// LineText returns the text of the given line, without the newline.
func (r Rope) LineText(line int) string {
	return r.SliceString(r.OffsetOfLine(line), r.LineEndOffset(line))
}

// Height returns the height of the rope tree, for balance diagnostics.
// The empty rope has height 0.
func (r Rope) Height() int {
	if r.root == nil || r.root.byteLen() == 0 {
		return 0
	}
	return r.root.height + 1
}

// Equals reports whether two ropes hold the same text, comparing content
// chunk-wise without regard to tree shape.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.root == other.root {
		return true
	}

	a, b := r.Chunks(), other.Chunks()
	var sa, sb string
	for {
		if sa == "" {
			if !a.Next() {
				return sb == "" && !b.Next()
			}
			sa = a.Chunk().String()
		}
		if sb == "" {
			if !b.Next() {
				return false
			}
			sb = b.Chunk().String()
		}
		n := len(sa)
		if len(sb) < n {
			n = len(sb)
		}
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
}
