// Package rope provides an immutable rope data structure for efficient text
// storage and manipulation.
//
// A rope is a balanced tree where leaf nodes contain text chunks and internal
// nodes store aggregated metrics (byte count, UTF-16 units, line count,
// grapheme count). This implementation uses a B+ tree variant for better
// cache locality and worst-case performance.
//
// Key features:
//   - O(log n) edit, split, concat, and conversion operations
//   - Immutable operations return new ropes; originals are never modified
//   - Structural sharing: edits rebuild only the path from the edited leaf
//     to the root, unchanged subtrees are referenced, not copied
//   - Metric conversion between byte offsets, UTF-16 code units, and lines
//   - Thread-safe for concurrent read access to published values
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Edit(interval.New(6, 11), "rope")   // "hello rope"
//	text := r.String()                        // O(n), on demand only
//
// Offsets are byte offsets into the UTF-8 encoding unless stated otherwise.
// Operations that would split a multi-byte code point report BoundaryError;
// callers snap explicitly with SnapToRuneBoundary, PrevRuneBoundary,
// NextRuneBoundary, or the grapheme-aware variants.
package rope
