// Package diff computes line-oriented differences between two ropes.
// Both ropes are tokenized into lines through the rope's traversal APIs,
// compared with Myers' algorithm over line hashes, and the result is
// emitted as a delta transforming the old rope into the new one, or as
// hunks for display.
package diff

import (
	"hash/fnv"
	"strings"

	"github.com/dshills/textcore/delta"
	"github.com/dshills/textcore/rope"
)

// Options configures diff computation.
type Options struct {
	// ContextLines is the number of unchanged lines to include around
	// each change in hunk output. Default is 3.
	ContextLines int

	// IgnoreCase performs case-insensitive comparison.
	IgnoreCase bool

	// IgnoreWhitespace ignores leading/trailing whitespace on each line.
	IgnoreWhitespace bool

	// IgnoreBlankLines treats blank lines as equal.
	IgnoreBlankLines bool

	// MaxLines caps the input size for the optimal Myers pass; larger
	// inputs fall back to a hash-matching heuristic. Default is 10000.
	// Set to -1 to disable the limit.
	MaxLines int

	// MaxMemoryMB caps the estimated memory of the Myers pass the same
	// way. Default is 100. Set to -1 to disable the limit.
	MaxMemoryMB int
}

// DefaultOptions returns the default diff options.
func DefaultOptions() Options {
	return Options{
		ContextLines: 3,
		MaxLines:     10000,
		MaxMemoryMB:  100,
	}
}

func (o Options) maxLines() int {
	if o.MaxLines == 0 {
		return 10000
	}
	return o.MaxLines
}

func (o Options) maxMemoryMB() int {
	if o.MaxMemoryMB == 0 {
		return 100
	}
	return o.MaxMemoryMB
}

// line is a tokenized line: its text (without newline), the byte offset
// of its start, and the hash of its normalized form.
type line struct {
	text  string
	start int
	hash  uint64
}

// tokenize splits a rope into lines using the streaming line iterator.
// A rope with N newlines yields N+1 lines.
func tokenize(r rope.Rope, opts Options) []line {
	var lines []line
	it := r.Lines()
	for it.Next() {
		text := it.Text()
		lines = append(lines, line{
			text:  text,
			start: it.StartOffset(),
			hash:  hashLine(normalize(text, opts)),
		})
	}
	return lines
}

func normalize(s string, opts Options) string {
	if opts.IgnoreCase {
		s = strings.ToLower(s)
	}
	if opts.IgnoreWhitespace {
		s = strings.TrimSpace(s)
	}
	return s
}

func hashLine(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// linesEqual compares two tokenized lines, using the hash as a cheap
// pre-filter before confirming on the normalized text.
func linesEqual(a, b line, opts Options) bool {
	if a.hash != b.hash {
		return false
	}
	na, nb := normalize(a.text, opts), normalize(b.text, opts)
	if opts.IgnoreBlankLines && na == "" && nb == "" {
		return true
	}
	return na == nb
}

// Lines computes the line diff between two ropes and returns the delta
// transforming old into new.
func Lines(oldRope, newRope rope.Rope, opts Options) (delta.Delta, error) {
	oldLines := tokenize(oldRope, opts)
	newLines := tokenize(newRope, opts)
	ops := script(oldLines, newLines, opts)

	// Byte range of old line i is [start[i], start[i+1]), newline included.
	oldEnd := func(i int) int {
		if i+1 < len(oldLines) {
			return oldLines[i+1].start
		}
		return oldRope.Len()
	}
	newEnd := func(i int) int {
		if i+1 < len(newLines) {
			return newLines[i+1].start
		}
		return newRope.Len()
	}

	var b delta.Builder
	for _, op := range ops {
		switch op.kind {
		case opEqual:
			os, oe := oldLines[op.oldIndex].start, oldEnd(op.oldIndex)
			ns, ne := newLines[op.newIndex].start, newEnd(op.newIndex)
			if oe-os == ne-ns {
				b.Copy(os, oe)
			} else {
				// Matching lines can still differ in raw bytes at the
				// tail, where one side carries a trailing newline the
				// other lacks. The target must get the new bytes.
				b.Insert(newRope.SliceString(ns, ne))
			}
		case opInsert:
			start := newLines[op.newIndex].start
			b.Insert(newRope.SliceString(start, newEnd(op.newIndex)))
		case opDelete:
			// Deleted lines simply are not copied.
		}
	}
	return b.Build(oldRope.Len())
}

// opKind is the type of a single edit operation.
type opKind uint8

const (
	opEqual opKind = iota
	opInsert
	opDelete
)

type editOp struct {
	kind     opKind
	oldIndex int
	newIndex int
}

// script computes the edit script, choosing Myers or the heuristic
// fallback based on the configured caps.
func script(oldLines, newLines []line, opts Options) []editOp {
	n, m := len(oldLines), len(newLines)

	if limit := opts.maxLines(); limit > 0 && (n > limit || m > limit) {
		return heuristicScript(oldLines, newLines, opts)
	}
	if limit := opts.maxMemoryMB(); limit > 0 {
		// Myers keeps one V vector copy per edit distance step:
		// up to (n+m) copies of (2(n+m)+1) ints.
		maxD := int64(n + m)
		estimatedMB := maxD * (2*maxD + 1) * 8 / (1024 * 1024)
		if estimatedMB > int64(limit) {
			return heuristicScript(oldLines, newLines, opts)
		}
	}

	return myersScript(oldLines, newLines, opts)
}

// myersScript implements Myers' shortest-edit-script algorithm with a
// slice-based V vector and a saved trace for backtracking.
func myersScript(oldLines, newLines []line, opts Options) []editOp {
	n, m := len(oldLines), len(newLines)
	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		ops := make([]editOp, m)
		for i := range ops {
			ops[i] = editOp{kind: opInsert, newIndex: i}
		}
		return ops
	}
	if m == 0 {
		ops := make([]editOp, n)
		for i := range ops {
			ops[i] = editOp{kind: opDelete, oldIndex: i}
		}
		return ops
	}

	maxD := n + m
	offset := maxD // v[-maxD..maxD] maps to v[0..2*maxD]
	v := make([]int, 2*maxD+1)
	var trace [][]int

outer:
	for d := 0; d <= maxD; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k

			for x < n && y < m && linesEqual(oldLines[x], newLines[y], opts) {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				final := make([]int, len(v))
				copy(final, v)
				trace = append(trace, final)
				break outer
			}
		}
	}

	return backtrack(trace, oldLines, newLines, offset, opts)
}

// backtrack reconstructs the edit script from the saved trace.
func backtrack(trace [][]int, oldLines, newLines []line, offset int, opts Options) []editOp {
	if len(trace) == 0 {
		return nil
	}

	x, y := len(oldLines), len(newLines)
	var ops []editOp

	for d := len(trace) - 2; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, editOp{kind: opEqual, oldIndex: x, newIndex: y})
		}

		if d > 0 {
			if x > prevX {
				x--
				ops = append(ops, editOp{kind: opDelete, oldIndex: x})
			} else if y > prevY {
				y--
				ops = append(ops, editOp{kind: opInsert, newIndex: y})
			}
		}
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

// heuristicScript is a line-matching fallback for very large inputs.
// It is less optimal than Myers but runs in O(n+m) memory.
func heuristicScript(oldLines, newLines []line, opts Options) []editOp {
	n, m := len(oldLines), len(newLines)

	byHash := make(map[uint64][]int, n)
	for i, l := range oldLines {
		byHash[l.hash] = append(byHash[l.hash], i)
	}

	oldMatched := make([]bool, n)
	newMatched := make([]bool, m)
	for j, l := range newLines {
		for _, i := range byHash[l.hash] {
			if !oldMatched[i] && linesEqual(oldLines[i], l, opts) {
				oldMatched[i] = true
				newMatched[j] = true
				break
			}
		}
	}

	var ops []editOp
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && oldMatched[i] && newMatched[j] &&
			linesEqual(oldLines[i], newLines[j], opts):
			ops = append(ops, editOp{kind: opEqual, oldIndex: i, newIndex: j})
			i++
			j++
		case i < n && (j >= m || !oldMatched[i]):
			ops = append(ops, editOp{kind: opDelete, oldIndex: i})
			i++
		case j < m && (i >= n || !newMatched[j]):
			ops = append(ops, editOp{kind: opInsert, newIndex: j})
			j++
		default:
			// Both lines matched, but to partners elsewhere. Consume
			// the old side as a change so the scan keeps moving.
			ops = append(ops, editOp{kind: opDelete, oldIndex: i})
			i++
		}
	}
	return ops
}
