package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// The zero value is an empty rope.
type Rope struct {
	root *node
}

// Point represents a line/column position. Line is 0-indexed; Column is a
// byte offset within the line.
type Point struct {
	Line   int
	Column int
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	var leaves []*node
	for len(s) > MaxLeafBytes {
		leaves = append(leaves, newLeaf(s[:MaxLeafBytes]))
		s = s[MaxLeafBytes:]
	}
	leaves = append(leaves, newLeaf(s))
	return Rope{root: buildBalanced(leaves)}
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rope{}, err
		}
	}
	return b.Build(), nil
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.length
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text. For large ropes prefer Slice.
func (r Rope) String() string {
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.writeString(&sb)
	return sb.String()
}

// Slice returns the text in [start, end). Offsets are clamped to the rope.
func (r Rope) Slice(start, end int) string {
	start, end = r.clamp(start, end)
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.writeSlice(&sb, start, end)
	return sb.String()
}

// Subseq returns the rope covering [start, end) as a rope, sharing
// structure with the original where possible.
func (r Rope) Subseq(start, end int) Rope {
	start, end = r.clamp(start, end)
	if start == 0 && end == r.Len() {
		return r
	}
	_, rest := splitNode(r.root, start)
	mid, _ := splitNode(rest, end-start)
	return Rope{root: mid}
}

// Insert returns a new rope with text inserted at the byte offset.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	l, rt := splitNode(r.root, r.clampOffset(offset))
	return Rope{root: concatNodes(concatNodes(l, FromString(text).root), rt)}
}

// Delete returns a new rope with [start, end) removed.
func (r Rope) Delete(start, end int) Rope {
	start, end = r.clamp(start, end)
	if start == end {
		return r
	}
	l, rest := splitNode(r.root, start)
	_, rt := splitNode(rest, end-start)
	return Rope{root: concatNodes(l, rt)}
}

// Concat returns the concatenation of two ropes.
func (r Rope) Concat(other Rope) Rope {
	return Rope{root: concatNodes(r.root, other.root)}
}

// Split divides the rope at the byte offset.
func (r Rope) Split(offset int) (Rope, Rope) {
	l, rt := splitNode(r.root, r.clampOffset(offset))
	return Rope{root: l}, Rope{root: rt}
}

// LineCount returns the number of lines. An empty rope has one line.
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.lines + 1
}

// LineOfOffset returns the 0-indexed line containing the byte offset.
func (r Rope) LineOfOffset(offset int) int {
	return r.root.linesBefore(r.clampOffset(offset))
}

// OffsetOfLine returns the byte offset of the start of the given line.
// Lines past the end map to Len().
func (r Rope) OffsetOfLine(line int) int {
	if r.root == nil {
		return 0
	}
	return r.root.offsetOfLine(line)
}

// OffsetToPoint converts a byte offset to a line/column position.
func (r Rope) OffsetToPoint(offset int) Point {
	offset = r.clampOffset(offset)
	line := r.LineOfOffset(offset)
	return Point{Line: line, Column: offset - r.OffsetOfLine(line)}
}

// Equals reports whether two ropes hold identical text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	return r.String() == other.String()
}

func (r Rope) clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > r.Len() {
		return r.Len()
	}
	return offset
}

func (r Rope) clamp(start, end int) (int, int) {
	start = r.clampOffset(start)
	end = r.clampOffset(end)
	if end < start {
		end = start
	}
	return start, end
}
