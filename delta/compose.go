package delta

// Compose returns the delta equivalent to applying d then other, expressed
// directly against d's base. This is how chained edits (coalesced
// keystrokes, multi-cursor batches) become one history entry without
// replaying both against text.
func (d Delta) Compose(other Delta) (Delta, error) {
	if other.baseLen != d.TargetLen() {
		return Delta{}, &MismatchError{
			Reason:  "second delta base differs from first delta target",
			Want:    d.TargetLen(),
			Got:     other.baseLen,
			BaseLen: d.baseLen,
		}
	}

	// Prefix sums of d's target offsets: d.elements[i] covers target
	// range [prefix[i], prefix[i+1]).
	prefix := make([]int, len(d.elements)+1)
	for i, el := range d.elements {
		prefix[i+1] = prefix[i] + el.Len()
	}

	var b Builder
	idx := 0 // resume point; other's copies are non-decreasing

	for _, el := range other.elements {
		if el.Kind == OpInsert {
			b.Insert(el.Text)
			continue
		}

		for idx < len(d.elements) && prefix[idx+1] <= el.Start {
			idx++
		}

		i := idx
		pos := el.Start
		for pos < el.End {
			src := d.elements[i]
			within := pos - prefix[i]
			take := el.End - pos
			if room := prefix[i+1] - pos; room < take {
				take = room
			}

			if src.Kind == OpInsert {
				b.Insert(src.Text[within : within+take])
			} else {
				b.Copy(src.Start+within, src.Start+within+take)
			}

			pos += take
			if pos >= prefix[i+1] {
				i++
			}
		}
	}

	return b.Build(d.baseLen)
}
