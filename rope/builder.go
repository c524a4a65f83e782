package rope

import (
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// readBufPool recycles the scratch buffers used when streaming readers
// into ropes, keeping repeated loads allocation-free.
var readBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 64*1024)
		return &b
	},
}

// Builder incrementally constructs a rope. It buffers writes into
// chunk-sized pieces and assembles a balanced tree on Build.
// The zero value is ready to use.
type Builder struct {
	chunks   []Chunk
	buf      strings.Builder
	totalLen int
}

// NewBuilder creates a rope builder.
func NewBuilder() *Builder {
	return &Builder{chunks: make([]Chunk, 0, 64)}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	if len(s) == 0 {
		return
	}
	b.totalLen += len(s)
	b.buf.WriteString(s)
	if b.buf.Len() >= MaxChunkSize*2 {
		b.flush(false)
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.totalLen++
	return b.buf.WriteByte(c)
}

// WriteRune appends a single rune.
func (b *Builder) WriteRune(r rune) (int, error) {
	n, err := b.buf.WriteRune(r)
	b.totalLen += n
	return n, err
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	bufp := readBufPool.Get().(*[]byte)
	defer readBufPool.Put(bufp)
	buf := *bufp

	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// flush converts buffered text into chunks. Unless final, the trailing
// grapheme cluster (and any incomplete UTF-8 sequence) is held back:
// later writes may extend it, and a chunk seam must never land inside
// a rune or a cluster.
func (b *Builder) flush(final bool) {
	if b.buf.Len() == 0 {
		return
	}
	s := b.buf.String()
	b.buf.Reset()
	if !final {
		if i := clusterSafeLen(s); i < len(s) {
			b.buf.WriteString(s[i:])
			s = s[:i]
			if s == "" {
				return
			}
		}
	}
	b.chunks = append(b.chunks, splitIntoChunks(s)...)
}

// clusterSafeLen returns the length of the longest prefix of s that can be
// cut into chunks now without risking a seam inside a grapheme cluster.
func clusterSafeLen(s string) int {
	i := incompleteTail(s)
	if i == 0 {
		return 0
	}
	return lastClusterStart(s[:i])
}

// lastClusterStart returns the byte offset where the final grapheme cluster
// of s begins. A cluster never continues past a line feed, so text ending in
// one is returned whole.
func lastClusterStart(s string) int {
	if s[len(s)-1] == '\n' {
		return len(s)
	}
	anchor := 0
	if len(s) > graphemeScanWindow {
		anchor = len(s) - graphemeScanWindow
		if i := strings.LastIndexByte(s[anchor:], '\n'); i >= 0 {
			anchor += i + 1
		} else {
			for anchor < len(s) && !isUTF8Start(s[anchor]) {
				anchor++
			}
		}
	}
	start := anchor
	g := uniseg.NewGraphemes(s[anchor:])
	for g.Next() {
		from, _ := g.Positions()
		start = anchor + from
	}
	return start
}

// incompleteTail returns the index where a trailing incomplete UTF-8
// sequence begins, or len(s) when the string ends on a rune boundary.
func incompleteTail(s string) int {
	for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
		c := s[i]
		if c < 0x80 {
			return len(s)
		}
		if isUTF8Start(c) {
			if utf8.FullRuneInString(s[i:]) {
				return len(s)
			}
			return i
		}
	}
	return len(s)
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int { return b.totalLen }

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.chunks = b.chunks[:0]
	b.buf.Reset()
	b.totalLen = 0
}

// Build creates the rope from the accumulated data and resets the builder.
func (b *Builder) Build() Rope {
	b.flush(true)
	if len(b.chunks) == 0 {
		b.Reset()
		return New()
	}
	chunks := b.chunks
	b.chunks = nil
	b.Reset()
	return fromChunks(chunks)
}

// FromLines creates a rope from a slice of lines, joining with newlines.
func FromLines(lines []string) Rope {
	if len(lines) == 0 {
		return New()
	}
	var b Builder
	for i, line := range lines {
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.Build()
}

// Join concatenates multiple ropes with a separator.
func Join(ropes []Rope, sep string) Rope {
	if len(ropes) == 0 {
		return New()
	}
	out := ropes[0]
	sepRope := FromString(sep)
	for _, r := range ropes[1:] {
		if sep != "" {
			out = out.Concat(sepRope)
		}
		out = out.Concat(r)
	}
	return out
}

// Repeat creates a rope by repeating a string n times.
func Repeat(s string, n int) Rope {
	if n <= 0 || len(s) == 0 {
		return New()
	}
	if len(s)*n <= MaxChunkSize*4 {
		return FromString(strings.Repeat(s, n))
	}
	var b Builder
	for i := 0; i < n; i++ {
		b.WriteString(s)
	}
	return b.Build()
}
