package rope

import "strings"

// Find reports the byte offset of the first occurrence of needle at or
// after from. The search scans chunk by chunk, carrying a seam overlap of
// len(needle)-1 bytes, so the rope is never flattened and searches resume
// from any offset.
func Find(r Rope, needle string, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if needle == "" {
		if from > r.Len() {
			return 0, false
		}
		return from, true
	}
	if from+len(needle) > r.Len() {
		return 0, false
	}

	var carry string
	carryStart := 0

	it := r.Chunks()
	for it.Next() {
		chunk := it.Chunk().String()
		start := it.Offset()

		if start+len(chunk) <= from {
			continue
		}
		if start < from {
			chunk = chunk[from-start:]
			start = from
		}

		window := chunk
		windowStart := start
		if carry != "" {
			window = carry + chunk
			windowStart = carryStart
		}

		if i := strings.Index(window, needle); i >= 0 {
			return windowStart + i, true
		}

		keep := len(needle) - 1
		if keep > len(window) {
			keep = len(window)
		}
		carry = window[len(window)-keep:]
		carryStart = windowStart + len(window) - keep
	}

	return 0, false
}

// FindAll returns the offsets of all non-overlapping occurrences of needle.
func FindAll(r Rope, needle string) []int {
	if needle == "" {
		return nil
	}
	var out []int
	from := 0
	for {
		off, ok := Find(r, needle, from)
		if !ok {
			return out
		}
		out = append(out, off)
		from = off + len(needle)
	}
}

// Contains reports whether the rope contains needle.
func Contains(r Rope, needle string) bool {
	_, ok := Find(r, needle, 0)
	return ok
}

// FindFold is Find with ASCII case folding: 'A'..'Z' match 'a'..'z' in
// both the rope and the needle. Non-ASCII bytes match exactly, keeping
// reported offsets byte-exact.
func FindFold(r Rope, needle string, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if needle == "" {
		if from > r.Len() {
			return 0, false
		}
		return from, true
	}
	if from+len(needle) > r.Len() {
		return 0, false
	}

	folded := foldASCII(needle)

	var carry string
	carryStart := 0

	it := r.Chunks()
	for it.Next() {
		chunk := it.Chunk().String()
		start := it.Offset()

		if start+len(chunk) <= from {
			continue
		}
		if start < from {
			chunk = chunk[from-start:]
			start = from
		}

		window := foldASCII(chunk)
		windowStart := start
		if carry != "" {
			window = carry + window
			windowStart = carryStart
		}

		if i := strings.Index(window, folded); i >= 0 {
			return windowStart + i, true
		}

		keep := len(folded) - 1
		if keep > len(window) {
			keep = len(window)
		}
		carry = window[len(window)-keep:]
		carryStart = windowStart + len(window) - keep
	}

	return 0, false
}

// foldASCII lower-cases ASCII letters without touching other bytes, so
// string length and offsets are preserved.
func foldASCII(s string) string {
	fold := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			fold = true
			break
		}
	}
	if !fold {
		return s
	}

	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
