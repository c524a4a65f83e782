package rope

import (
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf16"
)

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		lines     int
		graphemes int
		ascii     bool
	}{
		{"empty", "", 0, 0, true},
		{"ascii", "hello", 0, 5, true},
		{"with newlines", "a\nb\nc", 2, 5, true},
		{"tabs", "a\tb", 0, 3, true},
		{"cjk", "日本語", 0, 3, false},
		{"astral", "🌍🎉", 0, 2, false},
		{"combining", "é", 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeSummary(tt.input)
			if s.Bytes != len(tt.input) {
				t.Errorf("Bytes = %d, want %d", s.Bytes, len(tt.input))
			}
			if want := len(utf16.Encode([]rune(tt.input))); s.UTF16 != want {
				t.Errorf("UTF16 = %d, want %d", s.UTF16, want)
			}
			if s.Lines != tt.lines {
				t.Errorf("Lines = %d, want %d", s.Lines, tt.lines)
			}
			if s.Graphemes != tt.graphemes {
				t.Errorf("Graphemes = %d, want %d", s.Graphemes, tt.graphemes)
			}
			if got := s.Flags&FlagASCII != 0; got != tt.ascii {
				t.Errorf("FlagASCII = %v, want %v", got, tt.ascii)
			}
		})
	}
}

func TestSummaryFlags(t *testing.T) {
	s := ComputeSummary("a\tb\nc")
	if s.Flags&FlagHasNewlines == 0 {
		t.Error("FlagHasNewlines should be set")
	}
	if s.Flags&FlagHasTabs == 0 {
		t.Error("FlagHasTabs should be set")
	}
	if ComputeSummary("plain").Flags&(FlagHasNewlines|FlagHasTabs) != 0 {
		t.Error("flags set without newlines or tabs")
	}
}

func TestSummaryLineLengths(t *testing.T) {
	s := ComputeSummary("ab\nlongest line\nx")
	if s.FirstLineLen != 2 {
		t.Errorf("FirstLineLen = %d, want 2", s.FirstLineLen)
	}
	if s.LastLineLen != 1 {
		t.Errorf("LastLineLen = %d, want 1", s.LastLineLen)
	}
	if s.LongestLine != len("longest line") {
		t.Errorf("LongestLine = %d, want %d", s.LongestLine, len("longest line"))
	}
}

// Summaries must form a monoid: computing over a concatenation equals
// adding the summaries of the parts. Tree summaries rely on this.
func TestSummaryAddMonoid(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"hello", " world"},
		{"line one\n", "line two\n"},
		{"no newline at all", "\nthen one"},
		{"abc", "de\nf"},
		{"ab\ncd", "ef\ngh"},
		{"日本", "語テキスト"},
		{strings.Repeat("long line without breaks ", 20), "short\ntail"},
	}

	for _, p := range pairs {
		got := ComputeSummary(p[0]).Add(ComputeSummary(p[1]))
		want := ComputeSummary(p[0] + p[1])
		if got != want {
			t.Errorf("Add(%q, %q) = %+v, want %+v", p[0], p[1], got, want)
		}
	}
}

func TestSummaryAddMonoidQuick(t *testing.T) {
	f := func(a, b string) bool {
		got := ComputeSummary(a).Add(ComputeSummary(b))
		want := ComputeSummary(a + b)
		if got.Graphemes != want.Graphemes {
			// A cluster can merge across the seam; everything else
			// must still agree.
			got.Graphemes = want.Graphemes
		}
		return got == want
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestSummaryZero(t *testing.T) {
	var s Summary
	if !s.Zero().IsZero() {
		t.Error("Zero() should be zero")
	}
	other := ComputeSummary("text\n")
	if s.Zero().Add(other) != other {
		t.Error("zero is not the identity for Add")
	}
	if other.Add(s.Zero()) != other {
		t.Error("zero is not the right identity for Add")
	}
}

func TestLineIndex(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		positions []int
	}{
		{"none", "hello", nil},
		{"one", "ab\ncd", []int{2}},
		{"several", "\na\nb\n", []int{0, 2, 4}},
		{"spill", strings.Repeat("x\n", 10), []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := computeLineIndex(tt.input)
			if idx.Count() != len(tt.positions) {
				t.Fatalf("Count = %d, want %d", idx.Count(), len(tt.positions))
			}
			for i, want := range tt.positions {
				if got := idx.Position(i); got != want {
					t.Errorf("Position(%d) = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestLineIndexCountBefore(t *testing.T) {
	idx := computeLineIndex("a\nb\nc\nd")
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 2}, {6, 3}, {7, 3},
	}
	for _, tt := range tests {
		if got := idx.CountBefore(tt.offset); got != tt.want {
			t.Errorf("CountBefore(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
