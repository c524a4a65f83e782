package rope

import (
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"
)

func TestBuilder(t *testing.T) {
	var b Builder
	b.WriteString("hello ")
	b.WriteString("world")
	b.WriteByte('\n')
	b.WriteRune('日')
	if _, err := b.Write([]byte("bytes")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "hello world\n日bytes"
	if b.Len() != len(want) {
		t.Errorf("Len = %d, want %d", b.Len(), len(want))
	}

	r := b.Build()
	if r.String() != want {
		t.Errorf("Build = %q, want %q", r.String(), want)
	}
	if err := Validate(r); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuilderLarge(t *testing.T) {
	var b Builder
	var want strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString("chunked content line\n")
		want.WriteString("chunked content line\n")
	}
	r := b.Build()
	if r.String() != want.String() {
		t.Error("large build mismatch")
	}
	if r.LineCount() != 2001 {
		t.Errorf("LineCount = %d, want 2001", r.LineCount())
	}
	if err := Validate(r); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuilderReset(t *testing.T) {
	var b Builder
	b.WriteString("first")
	b.Reset()
	b.WriteString("second")
	if got := b.Build().String(); got != "second" {
		t.Errorf("after Reset = %q, want %q", got, "second")
	}
}

func TestBuilderReadFrom(t *testing.T) {
	input := strings.Repeat("streamed data ", 5000)
	var b Builder
	n, err := b.ReadFrom(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != int64(len(input)) {
		t.Errorf("ReadFrom n = %d, want %d", n, len(input))
	}
	if b.Build().String() != input {
		t.Error("ReadFrom round trip mismatch")
	}
}

func TestBuilderReadFromKeepsRunesIntact(t *testing.T) {
	// One-byte reads force flush seams at arbitrary positions; the
	// builder must still keep every chunk on rune boundaries.
	input := strings.Repeat("日本語テキスト", 300)
	var b Builder
	if _, err := b.ReadFrom(iotest.OneByteReader(strings.NewReader(input))); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	r := b.Build()
	if r.String() != input {
		t.Fatal("content mismatch")
	}
	it := r.Chunks()
	for it.Next() {
		if !utf8.ValidString(it.Chunk().String()) {
			t.Fatal("chunk seam inside a rune")
		}
	}
}

func TestBuilderStreamedClusterCounts(t *testing.T) {
	// Combining sequences streamed one byte at a time: flush seams must
	// not split a cluster, or the grapheme totals over-count.
	input := strings.Repeat("éx", 400)
	var b Builder
	if _, err := b.ReadFrom(iotest.OneByteReader(strings.NewReader(input))); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	r := b.Build()
	if r.String() != input {
		t.Fatal("content mismatch")
	}
	if got := r.Summary().Graphemes; got != 800 {
		t.Errorf("Graphemes = %d, want 800", got)
	}
	if err := Validate(r); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromLines(t *testing.T) {
	r := FromLines([]string{"alpha", "beta", "gamma"})
	if got := r.String(); got != "alpha\nbeta\ngamma" {
		t.Errorf("FromLines = %q", got)
	}
	if FromLines(nil).Len() != 0 {
		t.Error("FromLines(nil) should be empty")
	}
}

func TestJoin(t *testing.T) {
	ropes := []Rope{FromString("a"), FromString("b"), FromString("c")}
	if got := Join(ropes, ", ").String(); got != "a, b, c" {
		t.Errorf("Join = %q", got)
	}
	if Join(nil, ",").Len() != 0 {
		t.Error("Join(nil) should be empty")
	}
}

func TestRepeat(t *testing.T) {
	r := Repeat("ab", 1000)
	if r.Len() != 2000 {
		t.Errorf("Repeat Len = %d, want 2000", r.Len())
	}
	if r.String() != strings.Repeat("ab", 1000) {
		t.Error("Repeat content mismatch")
	}
	if Repeat("x", 0).Len() != 0 {
		t.Error("Repeat with n=0 should be empty")
	}
}

func TestCursorMovement(t *testing.T) {
	input := "héllo\nworld"
	c := NewCursor(FromString(input))

	if !c.AtStart() || c.AtEnd() {
		t.Error("new cursor should be at start")
	}

	var sb strings.Builder
	for !c.AtEnd() {
		r, size := c.Rune()
		if size == 0 {
			t.Fatal("Rune returned size 0 before end")
		}
		sb.WriteRune(r)
		c.Next()
	}
	if sb.String() != input {
		t.Errorf("forward walk = %q, want %q", sb.String(), input)
	}

	for !c.AtStart() {
		c.Prev()
	}
	if c.Offset() != 0 {
		t.Errorf("rewind offset = %d, want 0", c.Offset())
	}
}

func TestCursorSeek(t *testing.T) {
	r := FromString("ab\ncd日ef")
	c := NewCursor(r)

	if !c.SeekLine(1) {
		t.Fatal("SeekLine(1) failed")
	}
	if c.Offset() != 3 {
		t.Errorf("after SeekLine(1): offset = %d, want 3", c.Offset())
	}
	if p := c.Point(); p.Line != 1 || p.Column != 0 {
		t.Errorf("Point = %+v", p)
	}

	// Seeking into a multi-byte rune snaps back to its start.
	c.SeekOffset(6) // 日 occupies 5..8
	if c.Offset() != 5 {
		t.Errorf("mid-rune seek: offset = %d, want 5", c.Offset())
	}

	clone := c.Clone()
	c.Next()
	if clone.Offset() == c.Offset() {
		t.Error("clone should be independent of the original")
	}
}
