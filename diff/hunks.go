package diff

import (
	"fmt"
	"strings"

	"github.com/dshills/textcore/rope"
)

// Hunk is a contiguous group of changes with surrounding context lines.
// Line numbers are 1-based, counts are in lines.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int

	// Lines holds the hunk body with unified-diff prefixes:
	// " " context, "-" removed, "+" added.
	Lines []string
}

// Result is a computed line diff ready for display.
type Result struct {
	Hunks        []Hunk
	OldLineCount int
	NewLineCount int
}

// HasChanges reports whether the diff contains any changes.
func (r Result) HasChanges() bool { return len(r.Hunks) > 0 }

// Stats returns the number of added and removed lines.
func (r Result) Stats() (added, removed int) {
	for _, h := range r.Hunks {
		for _, l := range h.Lines {
			switch {
			case strings.HasPrefix(l, "+"):
				added++
			case strings.HasPrefix(l, "-"):
				removed++
			}
		}
	}
	return added, removed
}

// Hunks computes the line diff between two ropes and groups the changes
// into hunks with opts.ContextLines of surrounding context.
func Hunks(oldRope, newRope rope.Rope, opts Options) Result {
	oldLines := tokenize(oldRope, opts)
	newLines := tokenize(newRope, opts)
	ops := script(oldLines, newLines, opts)
	return buildHunks(ops, oldLines, newLines, opts)
}

func buildHunks(ops []editOp, oldLines, newLines []line, opts Options) Result {
	res := Result{OldLineCount: len(oldLines), NewLineCount: len(newLines)}
	ctx := opts.ContextLines
	if ctx < 0 {
		ctx = 0
	}

	// Lines of old/new consumed by ops[:i], so hunk starts can be
	// derived from op positions.
	oldBefore := make([]int, len(ops)+1)
	newBefore := make([]int, len(ops)+1)
	for i, op := range ops {
		oldBefore[i+1] = oldBefore[i]
		newBefore[i+1] = newBefore[i]
		switch op.kind {
		case opEqual:
			oldBefore[i+1]++
			newBefore[i+1]++
		case opDelete:
			oldBefore[i+1]++
		case opInsert:
			newBefore[i+1]++
		}
	}

	i := 0
	for i < len(ops) {
		if ops[i].kind == opEqual {
			i++
			continue
		}

		// Extend the group across equal runs short enough that the
		// surrounding context would overlap.
		groupEnd := i
		j := i
		for j < len(ops) {
			if ops[j].kind != opEqual {
				groupEnd = j
				j++
				continue
			}
			k := j
			for k < len(ops) && ops[k].kind == opEqual {
				k++
			}
			if k < len(ops) && k-j <= 2*ctx {
				j = k
				continue
			}
			break
		}

		hs := i - ctx
		if hs < 0 {
			hs = 0
		}
		he := groupEnd + ctx
		if he > len(ops)-1 {
			he = len(ops) - 1
		}

		h := Hunk{
			OldStart: oldBefore[hs] + 1,
			NewStart: newBefore[hs] + 1,
		}
		for _, op := range ops[hs : he+1] {
			switch op.kind {
			case opEqual:
				h.Lines = append(h.Lines, " "+oldLines[op.oldIndex].text)
				h.OldCount++
				h.NewCount++
			case opDelete:
				h.Lines = append(h.Lines, "-"+oldLines[op.oldIndex].text)
				h.OldCount++
			case opInsert:
				h.Lines = append(h.Lines, "+"+newLines[op.newIndex].text)
				h.NewCount++
			}
		}
		res.Hunks = append(res.Hunks, h)

		i = he + 1
	}

	return res
}

// Unified renders a result in unified diff format with the given
// file labels.
func Unified(r Result, oldName, newName string) string {
	if !r.HasChanges() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n", oldName)
	fmt.Fprintf(&sb, "+++ %s\n", newName)
	for _, h := range r.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n",
			h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
