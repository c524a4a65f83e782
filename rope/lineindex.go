package rope

// lineIndex records newline positions within a chunk for O(1) line seeks.
// Chunks are at most MaxChunkSize bytes, so positions fit comfortably in
// uint16. The common case of few newlines is stored inline without
// allocating.
type lineIndex struct {
	inline [4]uint16
	count  uint16
	spill  []uint16 // allocated only when count > len(inline)
}

const maxInlineNewlines = 4

// computeLineIndex scans a string and records every newline position.
func computeLineIndex(s string) lineIndex {
	var idx lineIndex

	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		if idx.count < maxInlineNewlines {
			idx.inline[idx.count] = uint16(i)
		} else {
			if idx.spill == nil {
				idx.spill = append(idx.spill, idx.inline[:]...)
			}
			idx.spill = append(idx.spill, uint16(i))
		}
		idx.count++
	}

	return idx
}

// Count returns the number of newlines in the chunk.
func (idx *lineIndex) Count() int {
	return int(idx.count)
}

// Position returns the byte offset of the nth newline (0-indexed),
// or -1 if n is out of range.
func (idx *lineIndex) Position(n int) int {
	if n < 0 || n >= int(idx.count) {
		return -1
	}
	if idx.spill != nil {
		return int(idx.spill[n])
	}
	return int(idx.inline[n])
}

// Before returns the position of the last newline strictly before offset,
// or -1 if there is none.
func (idx *lineIndex) Before(offset int) int {
	positions := idx.all()

	lo, hi := 0, len(positions)-1
	result := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if int(positions[mid]) < offset {
			result = int(positions[mid])
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return result
}

// CountBefore returns how many newlines fall strictly before offset.
func (idx *lineIndex) CountBefore(offset int) int {
	positions := idx.all()

	lo, hi := 0, len(positions)
	for lo < hi {
		mid := (lo + hi) / 2
		if int(positions[mid]) < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (idx *lineIndex) all() []uint16 {
	if idx.spill != nil {
		return idx.spill
	}
	return idx.inline[:idx.count]
}
