package rope

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Tree fanout constants.
const (
	// MinChildren is the minimum children per internal node (except root).
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxLeafChunks is the maximum chunks in a leaf node.
	MaxLeafChunks = 4
)

// node is a node in the rope B+ tree. Leaf nodes (height 0) hold chunks;
// internal nodes hold child references plus cached per-child summaries.
// Nodes are immutable after construction and may be shared by many ropes.
type node struct {
	height  int
	summary Summary

	// Internal node fields (height > 0)
	children  []*node
	childSums []Summary

	// Leaf node fields (height == 0)
	chunks []Chunk
}

func newLeaf(chunks []Chunk) *node {
	n := &node{chunks: chunks, summary: Summary{}.Zero()}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.Summary())
	}
	return n
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf(nil)
	}

	n := &node{
		height:    children[0].height + 1,
		children:  children,
		childSums: make([]Summary, len(children)),
		summary:   Summary{}.Zero(),
	}
	for i, child := range children {
		n.childSums[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
	return n
}

func (n *node) isLeaf() bool { return n.height == 0 }

func (n *node) byteLen() int { return n.summary.Bytes }

// appendTo appends all text in this subtree to the builder.
func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the byte range [start, end) to the builder.
func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.isLeaf() {
		offset := 0
		for _, c := range n.chunks {
			chunkEnd := offset + c.Len()
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}
			lo, hi := 0, c.Len()
			if start > offset {
				lo = start - offset
			}
			if end < chunkEnd {
				hi = end - offset
			}
			sb.WriteString(c.String()[lo:hi])
			offset = chunkEnd
		}
		return
	}

	offset := 0
	for i, child := range n.children {
		childEnd := offset + n.childSums[i].Bytes
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		lo, hi := 0, n.childSums[i].Bytes
		if start > offset {
			lo = start - offset
		}
		if end < childEnd {
			hi = end - offset
		}
		child.appendRange(sb, lo, hi)
		offset = childEnd
	}
}

// split splits the subtree at a byte offset. Both results satisfy the tree
// invariants; subtrees untouched by the cut are shared with the input.
func (n *node) split(offset int) (*node, *node) {
	if offset <= 0 {
		return newLeaf(nil), n
	}
	if offset >= n.byteLen() {
		return n, newLeaf(nil)
	}

	if n.isLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *node) splitLeaf(offset int) (*node, *node) {
	var left, right []Chunk
	pos := 0

	for _, c := range n.chunks {
		chunkEnd := pos + c.Len()
		switch {
		case chunkEnd <= offset:
			left = append(left, c)
		case pos >= offset:
			right = append(right, c)
		default:
			l, r := c.Split(offset - pos)
			if !l.IsEmpty() {
				left = append(left, l)
			}
			if !r.IsEmpty() {
				right = append(right, r)
			}
		}
		pos = chunkEnd
	}

	return newLeaf(left), newLeaf(right)
}

func (n *node) splitInternal(offset int) (*node, *node) {
	var left, right []*node
	pos := 0

	for i, child := range n.children {
		childEnd := pos + n.childSums[i].Bytes
		switch {
		case childEnd <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			l, r := child.split(offset - pos)
			if l.byteLen() > 0 {
				left = append(left, l)
			}
			if r.byteLen() > 0 {
				right = append(right, r)
			}
		}
		pos = childEnd
	}

	return rebuild(left), rebuild(right)
}

// rebuild assembles a balanced subtree from an ordered run of nodes whose
// heights may differ by at most one (as produced by splitting).
func rebuild(nodes []*node) *node {
	switch len(nodes) {
	case 0:
		return newLeaf(nil)
	case 1:
		return nodes[0]
	}

	// Splitting can hand back one shallower node at either seam; graft
	// pairwise so every level sees uniform heights.
	out := nodes[0]
	for _, n := range nodes[1:] {
		out = concat(out, n)
	}
	return out
}

// concat concatenates two subtrees, aligning heights and merging undersized
// leaves at the seam. Empty nodes are the identity. When the junction falls
// inside a grapheme cluster the seam chunks are re-split first, so per-chunk
// cluster counts keep summing exactly.
func concat(left, right *node) *node {
	if left == nil || left.byteLen() == 0 {
		if right == nil {
			return newLeaf(nil)
		}
		return right
	}
	if right == nil || right.byteLen() == 0 {
		return left
	}

	if seamJoinsClusters(left.lastChunk().String(), right.firstChunk().String()) {
		return concatRepaired(left, right)
	}
	return concatAligned(left, right)
}

func concatAligned(left, right *node) *node {
	if left.byteLen() == 0 {
		return right
	}
	if right.byteLen() == 0 {
		return left
	}

	if left.isLeaf() && right.isLeaf() {
		return concatLeaves(left, right)
	}

	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}

	return mergeSameHeight(left, right)
}

// concatRepaired cuts the two seam chunks out, re-splits their combined text
// on cluster boundaries, and stitches the pieces back together. The inner
// junctions were chunk seams of the inputs, so they are already aligned.
func concatRepaired(left, right *node) *node {
	tail := left.lastChunk().String()
	head := right.firstChunk().String()
	l, _ := left.split(left.byteLen() - len(tail))
	_, r := right.split(len(head))
	mid := fromChunks(splitIntoChunks(tail + head)).root
	return concatAligned(concatAligned(l, mid), r)
}

// seamJoinsClusters reports whether the junction between two adjacent chunk
// texts falls inside a grapheme cluster, including a CR LF pair. Clusters
// larger than a chunk are out of scope, as elsewhere.
func seamJoinsClusters(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, fb := a[len(a)-1], b[0]
	if la < 0x80 && fb < 0x80 && !(la == '\r' && fb == '\n') {
		return false
	}
	return uniseg.GraphemeClusterCount(a)+uniseg.GraphemeClusterCount(b) !=
		uniseg.GraphemeClusterCount(a+b)
}

// lastChunk returns the final chunk of a non-empty subtree.
func (n *node) lastChunk() Chunk {
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	return n.chunks[len(n.chunks)-1]
}

// firstChunk returns the initial chunk of a non-empty subtree.
func (n *node) firstChunk() Chunk {
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n.chunks[0]
}

func concatLeaves(left, right *node) *node {
	total := len(left.chunks) + len(right.chunks)
	if total <= MaxLeafChunks {
		chunks := make([]Chunk, 0, total)
		chunks = append(chunks, left.chunks...)
		chunks = append(chunks, right.chunks...)
		return newLeaf(chunks)
	}

	// Merge undersized seam chunks before stacking into an internal node.
	lc, rc := left.chunks, right.chunks
	if lc[len(lc)-1].Len()+rc[0].Len() <= MaxChunkSize {
		merged := NewChunk(lc[len(lc)-1].String() + rc[0].String())
		joined := make([]Chunk, 0, total-1)
		joined = append(joined, lc[:len(lc)-1]...)
		joined = append(joined, merged)
		joined = append(joined, rc[1:]...)
		if len(joined) <= MaxLeafChunks {
			return newLeaf(joined)
		}
		mid := len(joined) / 2
		return newInternal([]*node{newLeaf(joined[:mid:mid]), newLeaf(joined[mid:])})
	}

	return newInternal([]*node{left, right})
}

func mergeSameHeight(left, right *node) *node {
	if left.isLeaf() {
		return concatLeaves(left, right)
	}

	all := make([]*node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)

	if len(all) <= MaxChildren {
		return newInternal(all)
	}

	// Split the run into fanout-sized internal nodes, one level up.
	var parents []*node
	for i := 0; i < len(all); i += MaxChildren {
		end := i + MaxChildren
		if end > len(all) {
			end = len(all)
		}
		// Avoid a trailing singleton by rebalancing the final pair of groups.
		if len(all)-i > MaxChildren && len(all)-i < MaxChildren+MinChildren {
			mid := i + (len(all)-i)/2
			parents = append(parents, newInternal(all[i:mid:mid]), newInternal(all[mid:]))
			break
		}
		parents = append(parents, newInternal(all[i:end:end]))
	}

	if len(parents) == 1 {
		return parents[0]
	}
	return newInternal(parents)
}

// childAtOffset finds the child containing the byte offset, returning the
// index and the offset relative to that child.
func (n *node) childAtOffset(offset int) (int, int) {
	pos := 0
	for i, sum := range n.childSums {
		if pos+sum.Bytes > offset {
			return i, offset - pos
		}
		pos += sum.Bytes
	}
	last := len(n.children) - 1
	return last, offset - (n.summary.Bytes - n.childSums[last].Bytes)
}

// Validate checks the structural invariants of a rope: uniform leaf depth,
// cached summaries equal to the sum of their parts, and fanout bounds.
// A violation is a programming error; tests fail fast on the returned
// description.
func Validate(r Rope) error {
	if r.root == nil {
		return nil
	}
	if err := validateNode(r.root, true); err != nil {
		return err
	}
	// The cached total must also match a from-scratch recompute, which
	// catches seams that break the per-chunk sums.
	if got, want := r.Summary(), ComputeSummary(r.String()); got != want {
		return fmt.Errorf("rope summary mismatch: cached %+v computed %+v", got, want)
	}
	return nil
}

func validateNode(n *node, isRoot bool) error {
	if n.isLeaf() {
		want := Summary{}.Zero()
		for _, c := range n.chunks {
			if got := ComputeSummary(c.String()); got != c.Summary() {
				return fmt.Errorf("chunk summary mismatch: cached %+v computed %+v", c.Summary(), got)
			}
			want = want.Add(c.Summary())
		}
		if n.summary != want {
			return fmt.Errorf("leaf summary mismatch: cached %+v computed %+v", n.summary, want)
		}
		if len(n.chunks) > MaxLeafChunks {
			return fmt.Errorf("leaf has %d chunks, max %d", len(n.chunks), MaxLeafChunks)
		}
		return nil
	}

	if len(n.children) == 0 {
		return fmt.Errorf("internal node with no children")
	}
	if !isRoot && len(n.children) > MaxChildren {
		return fmt.Errorf("internal node has %d children, max %d", len(n.children), MaxChildren)
	}

	want := Summary{}.Zero()
	for i, child := range n.children {
		if child.height != n.height-1 {
			return fmt.Errorf("child height %d under node height %d", child.height, n.height)
		}
		if n.childSums[i] != child.summary {
			return fmt.Errorf("cached child summary mismatch at index %d", i)
		}
		want = want.Add(child.summary)
		if err := validateNode(child, false); err != nil {
			return err
		}
	}
	if n.summary != want {
		return fmt.Errorf("internal summary mismatch: cached %+v computed %+v", n.summary, want)
	}
	return nil
}
