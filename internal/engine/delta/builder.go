package delta

import (
	"fmt"

	"github.com/dquist/verso/internal/engine/rope"
)

// Builder assembles a Delta from replacements applied to a base sequence.
// Replacements must be supplied in ascending order and must not overlap;
// violating that is a caller bug and panics rather than producing a delta
// with undefined meaning.
type Builder struct {
	els        []Element
	baseLen    int
	lastOffset int
}

// NewBuilder creates a builder for a base sequence of the given length.
func NewBuilder(baseLen int) *Builder {
	return &Builder{baseLen: baseLen}
}

// Delete removes [start, end) from the base. The gap since the previous
// edit becomes an implicit copy.
func (b *Builder) Delete(start, end int) {
	if start < b.lastOffset {
		panic(fmt.Sprintf("delta: overlapping or unsorted edit at %d after %d", start, b.lastOffset))
	}
	if end < start || end > b.baseLen {
		panic(fmt.Sprintf("delta: invalid range [%d, %d) for base length %d", start, end, b.baseLen))
	}
	if start > b.lastOffset {
		b.els = append(b.els, CopyEl(b.lastOffset, start))
	}
	b.lastOffset = end
}

// Replace substitutes [start, end) of the base with text.
func (b *Builder) Replace(start, end int, text rope.Rope) {
	b.Delete(start, end)
	if !text.IsEmpty() {
		b.els = append(b.els, InsertEl(text))
	}
}

// IsEmpty returns true if no edits have been recorded.
func (b *Builder) IsEmpty() bool {
	return b.lastOffset == 0 && len(b.els) == 0
}

// Build returns the completed delta. The builder must not be reused.
func (b *Builder) Build() Delta {
	if b.lastOffset < b.baseLen {
		b.els = append(b.els, CopyEl(b.lastOffset, b.baseLen))
	}
	return Delta{els: b.els, baseLen: b.baseLen}
}
