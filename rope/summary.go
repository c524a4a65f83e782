package rope

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Point represents a line/column position.
// Line and Column are both 0-indexed; Column is a byte offset within the line.
type Point struct {
	Line   int
	Column int
}

// Compare returns -1, 0, or 1 ordering two points.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Summary holds aggregated metrics for a text span.
// It is the summary type for the rope tree, forming a monoid under Add.
type Summary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// UTF16 is the UTF-16 code unit count (for LSP-style consumers).
	UTF16 int

	// Lines is the number of newline characters.
	Lines int

	// Graphemes is the number of extended grapheme clusters.
	// Counted per chunk; chunk construction and concatenation keep chunk
	// seams on cluster boundaries so the counts sum exactly.
	Graphemes int

	// FirstLineLen is the byte length of the first line (excluding newline).
	FirstLineLen int

	// LastLineLen is the byte length of the last line (excluding newline).
	LastLineLen int

	// LongestLine is the byte length of the longest line.
	LongestLine int

	// Flags indicate text properties for fast paths.
	Flags Flags
}

// Flags indicate text properties for optimization fast paths.
type Flags uint8

const (
	// FlagASCII indicates all bytes are ASCII (< 128).
	FlagASCII Flags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines

	// FlagHasTabs indicates the text contains tab characters.
	FlagHasTabs
)

// Add combines two summaries. This is the monoid operation invoked when
// concatenating rope sections; internal node summaries are sums of their
// children computed with it.
func (s Summary) Add(other Summary) Summary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	out := Summary{
		Bytes:     s.Bytes + other.Bytes,
		UTF16:     s.UTF16 + other.UTF16,
		Lines:     s.Lines + other.Lines,
		Graphemes: s.Graphemes + other.Graphemes,
		Flags:     s.Flags & other.Flags & FlagASCII,
	}

	if other.Lines > 0 {
		// s's last line and other's first line join into one line at
		// the seam, terminated by other's first newline.
		joined := s.LastLineLen + other.FirstLineLen
		out.LongestLine = max(s.LongestLine, max(other.LongestLine, joined))
		if s.Lines == 0 {
			out.FirstLineLen = joined
		} else {
			out.FirstLineLen = s.FirstLineLen
		}
		out.LastLineLen = other.LastLineLen
	} else {
		// other extends the last line of s
		joined := s.LastLineLen + other.LastLineLen
		out.LongestLine = max(s.LongestLine, max(other.LongestLine, joined))
		if s.Lines == 0 {
			out.FirstLineLen = joined
		} else {
			out.FirstLineLen = s.FirstLineLen
		}
		out.LastLineLen = joined
	}

	if s.Flags&FlagHasNewlines != 0 || other.Flags&FlagHasNewlines != 0 {
		out.Flags |= FlagHasNewlines
	}
	if s.Flags&FlagHasTabs != 0 || other.Flags&FlagHasTabs != 0 {
		out.Flags |= FlagHasTabs
	}

	return out
}

// Zero returns the identity element for the summary monoid.
func (Summary) Zero() Summary {
	return Summary{Flags: FlagASCII}
}

// IsZero returns true if this is the identity summary.
func (s Summary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates every metric for a string in one pass,
// plus a grapheme segmentation pass for non-ASCII text.
func ComputeSummary(s string) Summary {
	if len(s) == 0 {
		return Summary{Flags: FlagASCII}
	}

	sum := Summary{
		Bytes: len(s),
		Flags: FlagASCII,
	}

	ascii := true
	lineLen := 0

	for _, r := range s {
		if r <= 0xFFFF {
			sum.UTF16++
		} else {
			sum.UTF16 += 2 // surrogate pair
		}

		if r > 127 {
			ascii = false
			sum.Flags &^= FlagASCII
		}

		if r == '\n' {
			sum.Lines++
			if lineLen > sum.LongestLine {
				sum.LongestLine = lineLen
			}
			if sum.Lines == 1 {
				sum.FirstLineLen = lineLen
			}
			lineLen = 0
			sum.Flags |= FlagHasNewlines
		} else {
			lineLen += utf8.RuneLen(r)
			if r == '\t' {
				sum.Flags |= FlagHasTabs
			}
		}
	}

	sum.LastLineLen = lineLen
	if sum.Lines == 0 {
		sum.FirstLineLen = lineLen
		sum.LongestLine = lineLen
	} else if lineLen > sum.LongestLine {
		sum.LongestLine = lineLen
	}

	if ascii {
		// Every ASCII byte is its own cluster except CRLF pairs.
		sum.Graphemes = len(s) - countCRLF(s)
	} else {
		sum.Graphemes = uniseg.GraphemeClusterCount(s)
	}

	return sum
}

func countCRLF(s string) int {
	n := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			n++
		}
	}
	return n
}
