package rope

import (
	"strings"
	"unicode/utf8"
)

// chunkFrame is a position in the tree traversal for chunk iteration.
type chunkFrame struct {
	node     *node
	childIdx int
	chunkIdx int
	offset   int // absolute byte offset at the start of this node
}

// ChunkIterator iterates over the chunks of a rope in document order.
type ChunkIterator struct {
	rope       Rope
	stack      []chunkFrame
	started    bool
	chunk      Chunk
	chunkStart int
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return &ChunkIterator{
		rope:  r,
		stack: make([]chunkFrame, 0, 8),
	}
}

// Next advances to the next chunk, returning false when done.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rope.root == nil || it.rope.Len() == 0 {
			return false
		}
		it.stack = append(it.stack, chunkFrame{node: it.rope.root})
		return it.advance()
	}

	if len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.node.isLeaf() {
			top.chunkIdx++
		}
	}
	return it.advance()
}

func (it *ChunkIterator) advance() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		n := top.node

		if n.isLeaf() {
			if top.chunkIdx < len(n.chunks) {
				start := top.offset
				for i := 0; i < top.chunkIdx; i++ {
					start += n.chunks[i].Len()
				}
				it.chunk = n.chunks[top.chunkIdx]
				it.chunkStart = start
				return true
			}
			it.pop()
			continue
		}

		if top.childIdx < len(n.children) {
			childStart := top.offset
			for i := 0; i < top.childIdx; i++ {
				childStart += n.childSums[i].Bytes
			}
			it.stack = append(it.stack, chunkFrame{
				node:   n.children[top.childIdx],
				offset: childStart,
			})
			continue
		}

		it.pop()
	}
	return false
}

func (it *ChunkIterator) pop() {
	it.stack = it.stack[:len(it.stack)-1]
	if len(it.stack) > 0 {
		it.stack[len(it.stack)-1].childIdx++
	}
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk { return it.chunk }

// Offset returns the byte offset of the start of the current chunk.
func (it *ChunkIterator) Offset() int { return it.chunkStart }

// LineIterator iterates over the lines of a rope in one streaming pass,
// assembling lines that span chunk seams without flattening the rope.
type LineIterator struct {
	chunks  *ChunkIterator
	rest    string // unconsumed tail of the current chunk
	pending strings.Builder
	line    int
	start   int // absolute offset of the current line start
	next    int // absolute offset one past the consumed text
	text    string
	started bool
	done    bool
}

// Lines returns an iterator over all lines in the rope. A rope with N
// newlines yields N+1 lines; the empty rope yields one empty line.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{chunks: r.Chunks()}
}

// Next advances to the next line, returning false when done.
func (it *LineIterator) Next() bool {
	if it.done {
		return false
	}
	if it.started {
		it.line++
	}
	it.started = true
	it.start = it.next

	for {
		if it.rest == "" {
			if !it.chunks.Next() {
				// Final line: whatever is pending (possibly empty).
				it.text = it.pending.String()
				it.pending.Reset()
				it.done = true
				return true
			}
			it.rest = it.chunks.Chunk().String()
		}

		if i := strings.IndexByte(it.rest, '\n'); i >= 0 {
			if it.pending.Len() > 0 {
				it.pending.WriteString(it.rest[:i])
				it.text = it.pending.String()
				it.pending.Reset()
			} else {
				it.text = it.rest[:i]
			}
			it.rest = it.rest[i+1:]
			it.next += i + 1
			return true
		}

		it.pending.WriteString(it.rest)
		it.next += len(it.rest)
		it.rest = ""
	}
}

// Text returns the text of the current line, without the newline.
func (it *LineIterator) Text() string { return it.text }

// Line returns the current 0-indexed line number.
func (it *LineIterator) Line() int { return it.line }

// StartOffset returns the byte offset of the start of the current line.
func (it *LineIterator) StartOffset() int { return it.start }

// RuneIterator iterates over the runes of a rope in document order.
type RuneIterator struct {
	chunks  *ChunkIterator
	rest    string
	offset  int
	current rune
	size    int
	started bool
}

// Runes returns an iterator over all runes in the rope.
// Runes never span chunk seams: chunks split on UTF-8 boundaries.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{chunks: r.Chunks()}
}

// Next advances to the next rune, returning false when done.
func (it *RuneIterator) Next() bool {
	if it.started {
		it.offset += it.size
	}
	it.started = true

	for it.rest == "" {
		if !it.chunks.Next() {
			it.size = 0
			return false
		}
		it.rest = it.chunks.Chunk().String()
	}

	it.current, it.size = utf8.DecodeRuneInString(it.rest)
	it.rest = it.rest[it.size:]
	return true
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune { return it.current }

// Size returns the byte size of the current rune.
func (it *RuneIterator) Size() int { return it.size }

// Offset returns the byte offset of the current rune.
func (it *RuneIterator) Offset() int { return it.offset }
