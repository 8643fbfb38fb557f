package rope

// Builder incrementally constructs a Rope from string pieces.
// The zero value is ready to use.
type Builder struct {
	leaves  []*node
	pending string
}

// WriteString appends text to the rope being built.
func (b *Builder) WriteString(s string) {
	if len(s) == 0 {
		return
	}
	b.pending += s
	for len(b.pending) >= MaxLeafBytes {
		b.leaves = append(b.leaves, newLeaf(b.pending[:MaxLeafBytes]))
		b.pending = b.pending[MaxLeafBytes:]
	}
}

// Push appends an existing rope to the rope being built.
func (b *Builder) Push(r Rope) {
	if r.IsEmpty() {
		return
	}
	b.flush()
	collectLeaves(r.root, &b.leaves)
}

func (b *Builder) flush() {
	if len(b.pending) > 0 {
		b.leaves = append(b.leaves, newLeaf(b.pending))
		b.pending = ""
	}
}

// Build returns the completed rope. The builder must not be reused.
func (b *Builder) Build() Rope {
	b.flush()
	return Rope{root: buildBalanced(b.leaves)}
}
