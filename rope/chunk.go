package rope

import "github.com/rivo/uniseg"

// Chunk size constants control the granularity of leaf storage.
// They are exported so callers tuning for read-mostly workloads can
// reason about leaf granularity; see the package documentation.
const (
	// MinChunkSize is the minimum bytes per chunk, except at the
	// edges of the rope.
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is a bounded immutable string stored in leaf nodes, carrying its
// precomputed summary and newline index.
type Chunk struct {
	data     string
	summary  Summary
	newlines lineIndex
}

// NewChunk creates a chunk, eagerly computing its metrics.
func NewChunk(s string) Chunk {
	return Chunk{
		data:     s,
		summary:  ComputeSummary(s),
		newlines: computeLineIndex(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string { return c.data }

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() Summary { return c.summary }

// Len returns the byte length of the chunk.
func (c Chunk) Len() int { return len(c.data) }

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool { return len(c.data) == 0 }

// Split splits a chunk at a byte offset. The offset must be a valid UTF-8
// boundary; edit entry points validate this before descending.
func (c Chunk) Split(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// splitIntoChunks splits a string into chunks of bounded size, preferring
// newline, then grapheme, then rune boundaries as split points.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	chunks := make([]Chunk, 0, len(s)/TargetChunkSize+1)
	remaining := s

	for len(remaining) > 0 {
		if len(remaining) <= MaxChunkSize {
			chunks = append(chunks, NewChunk(remaining))
			break
		}
		splitPoint := findSplitPoint(remaining, TargetChunkSize)
		chunks = append(chunks, NewChunk(remaining[:splitPoint]))
		remaining = remaining[splitPoint:]
	}

	return chunks
}

// findSplitPoint finds a good chunk boundary near target.
func findSplitPoint(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	// Prefer splitting after a newline near the target.
	searchStart := target - MinChunkSize/4
	if searchStart < 0 {
		searchStart = 0
	}
	searchEnd := target + MinChunkSize/4
	if searchEnd > len(s) {
		searchEnd = len(s)
	}
	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	// ASCII fast path: any position is a boundary.
	if s[target-1] < 0x80 && s[target] < 0x80 {
		return target
	}

	return graphemeSplitPoint(s, target)
}

// graphemeSplitPoint snaps target back to the nearest grapheme cluster
// boundary so per-chunk grapheme counts sum exactly.
func graphemeSplitPoint(s string, target int) int {
	// Segment forward from a window start that is itself a safe anchor:
	// walk back to an ASCII byte or rune start within MinChunkSize bytes.
	start := target - MinChunkSize
	if start < 0 {
		start = 0
	}
	for start > 0 && (s[start-1] >= 0x80 || s[start] >= 0x80) {
		start--
	}

	g := uniseg.NewGraphemes(s[start:])
	boundary := start
	for g.Next() {
		_, to := g.Positions()
		if start+to > target {
			break
		}
		boundary = start + to
	}
	if boundary <= 0 {
		// Degenerate input (one giant cluster); fall back to a rune boundary.
		boundary = target
		for boundary > 0 && !isUTF8Start(s[boundary]) {
			boundary--
		}
		if boundary == 0 {
			boundary = target
		}
	}
	return boundary
}

// isUTF8Start returns true if the byte begins a UTF-8 sequence.
// Continuation bytes have the form 10xxxxxx.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}
