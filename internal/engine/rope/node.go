package rope

import "strings"

// MaxLeafBytes is the maximum size of a leaf before concatenation stops
// merging adjacent leaves into one.
const MaxLeafBytes = 1024

// node is a tree node. A node with left == nil is a leaf holding text in s;
// otherwise it is an internal node and s is empty. All summary fields cover
// the whole subtree.
type node struct {
	height int
	length int // total bytes
	lines  int // total '\n' count
	left   *node
	right  *node
	s      string
}

func newLeaf(s string) *node {
	return &node{
		length: len(s),
		lines:  strings.Count(s, "\n"),
		s:      s,
	}
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// concatNodes joins two subtrees, merging small leaves and rebalancing when
// the result grows too tall.
func concatNodes(a, b *node) *node {
	if a == nil || a.length == 0 {
		return b
	}
	if b == nil || b.length == 0 {
		return a
	}
	if a.isLeaf() && b.isLeaf() && a.length+b.length <= MaxLeafBytes {
		return newLeaf(a.s + b.s)
	}
	h := a.height
	if b.height > h {
		h = b.height
	}
	n := &node{
		height: h + 1,
		length: a.length + b.length,
		lines:  a.lines + b.lines,
		left:   a,
		right:  b,
	}
	if !n.isBalanced() {
		return rebuild(n)
	}
	return n
}

// isBalanced reports whether the subtree height is acceptable for its size.
// A tree of height h must hold at least fib(h) leaves worth of text; the
// cheaper check used here bounds height by 2*log2(leafCount)+2 via length.
func (n *node) isBalanced() bool {
	limit := 2
	for size := MaxLeafBytes; size < n.length; size *= 2 {
		limit += 2
	}
	return n.height <= limit
}

// rebuild collects the leaves of a subtree and builds a balanced tree
// bottom-up, the same way FromString does.
func rebuild(n *node) *node {
	var leaves []*node
	collectLeaves(n, &leaves)
	return buildBalanced(leaves)
}

func collectLeaves(n *node, out *[]*node) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		*out = append(*out, n)
		return
	}
	collectLeaves(n.left, out)
	collectLeaves(n.right, out)
}

// buildBalanced pairs nodes level by level until one root remains.
func buildBalanced(nodes []*node) *node {
	if len(nodes) == 0 {
		return nil
	}
	for len(nodes) > 1 {
		parents := make([]*node, 0, (len(nodes)+1)/2)
		for i := 0; i < len(nodes); i += 2 {
			if i+1 < len(nodes) {
				a, b := nodes[i], nodes[i+1]
				h := a.height
				if b.height > h {
					h = b.height
				}
				parents = append(parents, &node{
					height: h + 1,
					length: a.length + b.length,
					lines:  a.lines + b.lines,
					left:   a,
					right:  b,
				})
			} else {
				parents = append(parents, nodes[i])
			}
		}
		nodes = parents
	}
	return nodes[0]
}

// splitNode divides a subtree at a byte offset. Both results may be nil.
func splitNode(n *node, offset int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	if offset <= 0 {
		return nil, n
	}
	if offset >= n.length {
		return n, nil
	}
	if n.isLeaf() {
		return newLeaf(n.s[:offset]), newLeaf(n.s[offset:])
	}
	if offset < n.left.length {
		l, r := splitNode(n.left, offset)
		return l, concatNodes(r, n.right)
	}
	l, r := splitNode(n.right, offset-n.left.length)
	return concatNodes(n.left, l), r
}

// writeString appends the subtree's text to the builder.
func (n *node) writeString(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		sb.WriteString(n.s)
		return
	}
	n.left.writeString(sb)
	n.right.writeString(sb)
}

// writeSlice appends text in [start, end) to the builder.
func (n *node) writeSlice(sb *strings.Builder, start, end int) {
	if n == nil || start >= end {
		return
	}
	if n.isLeaf() {
		sb.WriteString(n.s[start:end])
		return
	}
	ll := n.left.length
	if start < ll {
		e := end
		if e > ll {
			e = ll
		}
		n.left.writeSlice(sb, start, e)
	}
	if end > ll {
		s := start - ll
		if s < 0 {
			s = 0
		}
		n.right.writeSlice(sb, s, end-ll)
	}
}

// linesBefore counts '\n' in [0, offset).
func (n *node) linesBefore(offset int) int {
	if n == nil || offset <= 0 {
		return 0
	}
	if offset >= n.length {
		return n.lines
	}
	if n.isLeaf() {
		return strings.Count(n.s[:offset], "\n")
	}
	if offset <= n.left.length {
		return n.left.linesBefore(offset)
	}
	return n.left.lines + n.right.linesBefore(offset-n.left.length)
}

// offsetOfLine returns the byte offset of the start of the given line,
// i.e. the position just after the line-th newline (line 0 starts at 0).
func (n *node) offsetOfLine(line int) int {
	if line <= 0 || n == nil {
		return 0
	}
	if line > n.lines {
		return n.length
	}
	if n.isLeaf() {
		off := 0
		for i := 0; i < line; i++ {
			nl := strings.IndexByte(n.s[off:], '\n')
			off += nl + 1
		}
		return off
	}
	if line <= n.left.lines {
		return n.left.offsetOfLine(line)
	}
	return n.left.length + n.right.offsetOfLine(line-n.left.lines)
}
