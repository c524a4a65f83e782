package delta

import "github.com/dshills/textcore/rope"

// Invert returns the delta that undoes d. The base rope supplies the
// pre-image content for any ranges d deletes, so the inverse can re-insert
// them; this is the undo primitive. Inversion is defined for deltas whose
// copies are non-decreasing (pure insert/delete shapes, the constructor
// and composition output); a reordering delta reports MismatchError.
func (d Delta) Invert(base rope.Rope) (Delta, error) {
	if base.Len() != d.baseLen {
		return Delta{}, &MismatchError{
			Reason:  "base length differs from delta base",
			Want:    d.baseLen,
			Got:     base.Len(),
			BaseLen: d.baseLen,
		}
	}

	var b Builder
	basePos := 0   // consumed base bytes
	targetPos := 0 // produced target bytes

	for _, el := range d.elements {
		if el.Kind == OpInsert {
			// Inserted content is deleted by the inverse: skip it in
			// the target without copying.
			targetPos += len(el.Text)
			continue
		}

		if el.Start < basePos {
			return Delta{}, &MismatchError{
				Reason:  "copies are reordered",
				Want:    basePos,
				Got:     el.Start,
				BaseLen: d.baseLen,
			}
		}

		// The base range skipped before this copy was deleted by d;
		// the inverse re-inserts its content.
		if el.Start > basePos {
			b.Insert(base.SliceString(basePos, el.Start))
		}

		n := el.End - el.Start
		b.Copy(targetPos, targetPos+n)
		basePos = el.End
		targetPos += n
	}

	if basePos < d.baseLen {
		b.Insert(base.SliceString(basePos, d.baseLen))
	}

	return b.Build(d.TargetLen())
}
