package rope

import (
	"strings"
	"testing"
)

func TestChunkIterator(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"small", "hello"},
		{"multi chunk", strings.Repeat("0123456789", 200)},
		{"unicode", strings.Repeat("日本語のテキスト ", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			var sb strings.Builder
			lastOffset := 0
			it := r.Chunks()
			for it.Next() {
				if it.Offset() != lastOffset {
					t.Errorf("chunk offset = %d, want %d", it.Offset(), lastOffset)
				}
				sb.WriteString(it.Chunk().String())
				lastOffset += it.Chunk().Len()
			}
			if sb.String() != tt.input {
				t.Error("chunk concatenation does not restore input")
			}
		})
	}
}

func TestChunkIteratorSizes(t *testing.T) {
	r := FromString(strings.Repeat("a", 10000))
	it := r.Chunks()
	for it.Next() {
		c := it.Chunk()
		if c.Len() > MaxChunkSize {
			t.Errorf("chunk of %d bytes exceeds max %d", c.Len(), MaxChunkSize)
		}
		if c.IsEmpty() {
			t.Error("iterator yielded an empty chunk")
		}
	}
}

func TestLineIterator(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lines []string
	}{
		{"empty", "", []string{""}},
		{"no newline", "hello", []string{"hello"}},
		{"two lines", "hello\nworld", []string{"hello", "world"}},
		{"trailing newline", "hello\n", []string{"hello", ""}},
		{"blank lines", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			it := FromString(tt.input).Lines()
			for it.Next() {
				if it.Line() != len(got) {
					t.Errorf("Line() = %d, want %d", it.Line(), len(got))
				}
				got = append(got, it.Text())
			}
			if len(got) != len(tt.lines) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.lines))
			}
			for i := range got {
				if got[i] != tt.lines[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.lines[i])
				}
			}
		})
	}
}

func TestLineIteratorOffsets(t *testing.T) {
	input := strings.Repeat("some line here\n", 400)
	r := FromString(input)

	it := r.Lines()
	for it.Next() {
		if want := r.OffsetOfLine(it.Line()); it.StartOffset() != want {
			t.Fatalf("line %d: StartOffset = %d, want %d", it.Line(), it.StartOffset(), want)
		}
		if want := r.LineText(it.Line()); it.Text() != want {
			t.Fatalf("line %d: Text = %q, want %q", it.Line(), it.Text(), want)
		}
	}
}

func TestLineIteratorCrossesChunks(t *testing.T) {
	// One line far longer than a chunk, so the iterator must stitch
	// pieces together across chunk boundaries.
	long := strings.Repeat("x", MaxChunkSize*3)
	input := long + "\nshort"
	var got []string
	it := FromString(input).Lines()
	for it.Next() {
		got = append(got, it.Text())
	}
	if len(got) != 2 || got[0] != long || got[1] != "short" {
		t.Error("long line was not reassembled across chunks")
	}
}

func TestRuneIterator(t *testing.T) {
	input := "héllo 世界 🌍\nend"
	r := FromString(input)

	var sb strings.Builder
	offset := 0
	it := r.Runes()
	for it.Next() {
		if it.Offset() != offset {
			t.Errorf("rune offset = %d, want %d", it.Offset(), offset)
		}
		sb.WriteRune(it.Rune())
		offset += it.Size()
	}
	if sb.String() != input {
		t.Error("rune iteration does not restore input")
	}
	if offset != len(input) {
		t.Errorf("final offset = %d, want %d", offset, len(input))
	}
}

func TestRuneIteratorAcrossChunks(t *testing.T) {
	// Multi-byte runes spanning the whole rope force decoding across
	// chunk seams.
	input := strings.Repeat("日本語", 500)
	count := 0
	it := FromString(input).Runes()
	for it.Next() {
		count++
	}
	if count != 1500 {
		t.Errorf("decoded %d runes, want 1500", count)
	}
}
