package rope

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf16"
	"unicode/utf8"
)

func TestOffsetUTF16RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ascii", "hello world"},
		{"bmp", "héllo wörld"},
		{"cjk", "日本語テキスト"},
		{"astral", "a🌍b🎉c"},
		{"mixed large", strings.Repeat("a🌍日x", 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			for offset := 0; offset <= len(tt.input); {
				units, err := r.OffsetToUTF16(offset)
				if err != nil {
					t.Fatalf("OffsetToUTF16(%d): %v", offset, err)
				}
				if want := len(utf16.Encode([]rune(tt.input[:offset]))); units != want {
					t.Fatalf("OffsetToUTF16(%d) = %d, want %d", offset, units, want)
				}
				back, err := r.UTF16ToOffset(units)
				if err != nil {
					t.Fatalf("UTF16ToOffset(%d): %v", units, err)
				}
				if back != offset {
					t.Fatalf("round trip %d -> %d -> %d", offset, units, back)
				}

				if offset == len(tt.input) {
					break
				}
				_, size := utf8.DecodeRuneInString(tt.input[offset:])
				offset += size
			}
		})
	}
}

func TestOffsetToUTF16Errors(t *testing.T) {
	r := FromString("日本")

	_, err := r.OffsetToUTF16(1) // inside 日
	if !errors.Is(err, ErrBoundary) {
		t.Errorf("mid-rune offset: want ErrBoundary, got %v", err)
	}

	_, err = r.OffsetToUTF16(100)
	if !errors.Is(err, ErrRange) {
		t.Errorf("out of range: want ErrRange, got %v", err)
	}
}

func TestUTF16ToOffsetErrors(t *testing.T) {
	r := FromString("a🌍b") // 🌍 is 2 UTF-16 units, 4 bytes

	_, err := r.UTF16ToOffset(2) // between surrogate halves
	if !errors.Is(err, ErrBoundary) {
		t.Errorf("mid-surrogate: want ErrBoundary, got %v", err)
	}
	var be *BoundaryError
	if errors.As(err, &be) {
		if be.Unit != "utf16" {
			t.Errorf("Unit = %q, want utf16", be.Unit)
		}
	} else {
		t.Errorf("want *BoundaryError, got %T", err)
	}

	_, err = r.UTF16ToOffset(100)
	if !errors.Is(err, ErrRange) {
		t.Errorf("out of range: want ErrRange, got %v", err)
	}
}

func TestOffsetPointRoundTrip(t *testing.T) {
	input := "alpha\nbeta gamma\n\nlast line"
	r := FromString(input)

	tests := []struct {
		offset int
		point  Point
	}{
		{0, Point{Line: 0, Column: 0}},
		{5, Point{Line: 0, Column: 5}},
		{6, Point{Line: 1, Column: 0}},
		{10, Point{Line: 1, Column: 4}},
		{17, Point{Line: 2, Column: 0}},
		{18, Point{Line: 3, Column: 0}},
		{len(input), Point{Line: 3, Column: 9}},
	}

	for _, tt := range tests {
		if got := r.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %+v, want %+v", tt.offset, got, tt.point)
		}
		if got := r.PointToOffset(tt.point); got != tt.offset {
			t.Errorf("PointToOffset(%+v) = %d, want %d", tt.point, got, tt.offset)
		}
	}
}

func TestPointToOffsetClamping(t *testing.T) {
	r := FromString("ab\ncdef")

	// Column beyond line end clamps to the line end.
	if got := r.PointToOffset(Point{Line: 0, Column: 100}); got != 2 {
		t.Errorf("clamped column = %d, want 2", got)
	}
	// Line beyond last clamps to rope end.
	if got := r.PointToOffset(Point{Line: 99, Column: 0}); got != r.Len() {
		t.Errorf("clamped line = %d, want %d", got, r.Len())
	}
}

func TestPointCompare(t *testing.T) {
	a := Point{Line: 1, Column: 5}
	b := Point{Line: 2, Column: 0}
	c := Point{Line: 1, Column: 8}

	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Error("line ordering wrong")
	}
	if a.Compare(c) >= 0 {
		t.Error("column ordering wrong")
	}
	if a.Compare(a) != 0 {
		t.Error("self comparison should be 0")
	}
}

func TestRuneBoundaries(t *testing.T) {
	r := FromString("a日b") // 日 occupies offsets 1..4

	for offset, want := range map[int]bool{0: true, 1: true, 2: false, 3: false, 4: true, 5: true} {
		if got := r.IsRuneBoundary(offset); got != want {
			t.Errorf("IsRuneBoundary(%d) = %v, want %v", offset, got, want)
		}
	}

	if got := r.PrevRuneBoundary(3); got != 1 {
		t.Errorf("PrevRuneBoundary(3) = %d, want 1", got)
	}
	if got := r.NextRuneBoundary(2); got != 4 {
		t.Errorf("NextRuneBoundary(2) = %d, want 4", got)
	}
	// PrevRuneBoundary is strictly-before; SnapToRuneBoundary stays put
	// when already aligned.
	if got := r.PrevRuneBoundary(4); got != 1 {
		t.Errorf("PrevRuneBoundary(4) = %d, want 1", got)
	}
	if got := r.SnapToRuneBoundary(4); got != 4 {
		t.Errorf("SnapToRuneBoundary(4) = %d, want 4", got)
	}
	if got := r.SnapToRuneBoundary(2); got != 1 {
		t.Errorf("SnapToRuneBoundary(2) = %d, want 1", got)
	}
}

func TestGraphemeBoundaries(t *testing.T) {
	// 👍🏽 is thumbs-up (4 bytes) plus skin tone modifier (4 bytes):
	// one grapheme cluster of 8 bytes.
	input := "a👍🏽b"
	r := FromString(input)

	if !r.IsGraphemeBoundary(0) || !r.IsGraphemeBoundary(1) {
		t.Error("cluster start should be a boundary")
	}
	if r.IsGraphemeBoundary(5) {
		t.Error("offset between modifier and base should not be a boundary")
	}
	if !r.IsGraphemeBoundary(9) {
		t.Error("cluster end should be a boundary")
	}

	if got := r.NextGraphemeBoundary(1); got != 9 {
		t.Errorf("NextGraphemeBoundary(1) = %d, want 9", got)
	}
	if got := r.PrevGraphemeBoundary(9); got != 1 {
		t.Errorf("PrevGraphemeBoundary(9) = %d, want 1", got)
	}
	if got := r.PrevGraphemeBoundary(5); got != 1 {
		t.Errorf("PrevGraphemeBoundary(5) = %d, want 1", got)
	}
}

func TestGraphemeBoundariesAcrossChunks(t *testing.T) {
	// Enough combining sequences to span several chunks.
	input := strings.Repeat("éx", 500) // é as e + combining acute
	r := FromString(input)

	// Offset 1 is between e and its combining accent: not a boundary.
	if r.IsGraphemeBoundary(1) {
		t.Error("combining accent split reported as boundary")
	}
	// Offset 3 is after the accent, before x: a boundary.
	if !r.IsGraphemeBoundary(3) {
		t.Error("cluster edge not reported as boundary")
	}
	mid := r.Len() / 2
	prev := r.PrevGraphemeBoundary(mid)
	next := r.NextGraphemeBoundary(prev)
	if prev > mid || next <= prev {
		t.Errorf("boundary scan inconsistent: prev=%d next=%d mid=%d", prev, next, mid)
	}
}
