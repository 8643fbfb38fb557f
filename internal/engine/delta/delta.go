package delta

import (
	"fmt"

	"github.com/dquist/verso/internal/engine/rope"
	"github.com/dquist/verso/internal/engine/subset"
)

// Element is one step of a delta: either a copy of [Beg, End) from the base
// sequence or an insertion of Text.
type Element struct {
	Beg  int
	End  int
	Text rope.Rope

	insert bool
}

// CopyEl creates a copy element covering [beg, end) of the base.
func CopyEl(beg, end int) Element {
	return Element{Beg: beg, End: end}
}

// InsertEl creates an insert element carrying the given text.
func InsertEl(text rope.Rope) Element {
	return Element{Text: text, insert: true}
}

// IsInsert returns true for insert elements.
func (e Element) IsInsert() bool {
	return e.insert
}

// NewLen returns the length this element contributes to the new sequence.
func (e Element) NewLen() int {
	if e.insert {
		return e.Text.Len()
	}
	return e.End - e.Beg
}

// Delta is an ordered copy/insert script transforming a base sequence of
// BaseLen() bytes into a new sequence. Deltas are immutable once built.
type Delta struct {
	els     []Element
	baseLen int
}

// Insertion is a single insert of an InsertDelta, positioned in base
// coordinates.
type Insertion struct {
	Offset int
	Text   rope.Rope
}

// BaseLen returns the length of the sequence the delta applies to.
func (d Delta) BaseLen() int {
	return d.baseLen
}

// NewLen returns the length of the sequence the delta produces.
func (d Delta) NewLen() int {
	n := 0
	for _, el := range d.els {
		n += el.NewLen()
	}
	return n
}

// Elements returns the delta's elements. The slice is shared and must not
// be modified.
func (d Delta) Elements() []Element {
	return d.els
}

// IsIdentity returns true if applying the delta changes nothing.
func (d Delta) IsIdentity() bool {
	switch len(d.els) {
	case 0:
		return d.baseLen == 0
	case 1:
		el := d.els[0]
		return !el.insert && el.Beg == 0 && el.End == d.baseLen
	}
	return false
}

// Apply runs the delta against a base rope and returns the new rope.
// The base must have length BaseLen(); anything else is an engine bug.
func (d Delta) Apply(base rope.Rope) rope.Rope {
	if base.Len() != d.baseLen {
		panic(fmt.Sprintf("delta: apply to rope of length %d, expected %d", base.Len(), d.baseLen))
	}
	var b rope.Builder
	for _, el := range d.els {
		if el.insert {
			b.Push(el.Text)
		} else {
			b.Push(base.Subseq(el.Beg, el.End))
		}
	}
	return b.Build()
}

// Summary returns the affected interval [start, end) of the base sequence
// and the length of the new text replacing it. Unchanged prefix and suffix
// copies are excluded from the interval.
func (d Delta) Summary() (start, end, newLen int) {
	els := d.els
	start = 0
	if len(els) > 0 && !els[0].insert && els[0].Beg == 0 {
		start = els[0].End
		els = els[1:]
	}
	end = d.baseLen
	if n := len(els); n > 0 && !els[n-1].insert && els[n-1].End == d.baseLen {
		end = els[n-1].Beg
		els = els[:n-1]
	}
	for _, el := range els {
		newLen += el.NewLen()
	}
	if end < start {
		end = start
	}
	return start, end, newLen
}

// TransformOffset maps a base offset to the corresponding offset in the
// new text. Offsets inside a deleted region collapse to its start. An
// offset at an insertion point lands before the inserted text, or after
// it when after is true.
func (d Delta) TransformOffset(offset int, after bool) int {
	if offset == 0 && !after {
		return 0
	}
	result := 0
	for _, el := range d.els {
		if el.insert {
			result += el.Text.Len()
			continue
		}
		if offset <= el.Beg {
			return result
		}
		if offset < el.End || (offset == el.End && !after) {
			return result + offset - el.Beg
		}
		result += el.End - el.Beg
	}
	return result
}

// Factor splits the delta into an insertion-only delta and a subset of the
// base marking the deleted positions. Applying the InsertDelta and then
// deleting the (expanded) subset is equivalent to applying the original.
func (d Delta) Factor() (InsertDelta, subset.Subset) {
	var ins []Element
	var sb subset.Builder
	b1, e1 := 0, 0
	for _, el := range d.els {
		if el.insert {
			if e1 > b1 {
				ins = append(ins, CopyEl(b1, e1))
			}
			b1 = e1
			ins = append(ins, el)
		} else {
			sb.AddRange(e1, el.Beg, 1)
			e1 = el.End
		}
	}
	if b1 < d.baseLen {
		ins = append(ins, CopyEl(b1, d.baseLen))
	}
	sb.AddRange(e1, d.baseLen, 1)
	sb.PadToLen(d.baseLen)
	return InsertDelta{Delta{els: ins, baseLen: d.baseLen}}, sb.Build()
}

// Synthesize builds the delta that carries a text from one deletion state to
// another. fromDels and toDels are both subsets of the same union space;
// tombstones holds exactly the characters of fromDels, in order. The result
// applies to the text with fromDels deleted and produces the text with
// toDels deleted, pulling any newly-revealed characters out of tombstones.
func Synthesize(tombstones rope.Rope, fromDels, toDels subset.Subset) Delta {
	baseLen := fromDels.LenAfterDelete()
	var els []Element

	x := 0 // length of old text consumed so far
	oldRanges := fromDels.Ranges(subset.CountZero)
	oldStart, oldEnd, oldOK := oldRanges.Next()
	m := fromDels.Mapper(subset.CountNonZero)

	newRanges := toDels.Ranges(subset.CountZero)
	for {
		b, e, ok := newRanges.Next()
		if !ok {
			break
		}
		for beg := b; beg < e; {
			// Skip old ranges that end before this position.
			for oldOK && oldEnd <= beg {
				x += oldEnd - oldStart
				oldStart, oldEnd, oldOK = oldRanges.Next()
			}
			if oldOK && oldStart <= beg {
				// The character at beg survives from the old text: copy.
				end := e
				if oldEnd < end {
					end = oldEnd
				}
				xbeg := beg - oldStart + x
				xend := end - oldStart + x
				if n := len(els); n > 0 && !els[n-1].insert && els[n-1].End == xbeg {
					els[n-1].End = xend
				} else {
					els = append(els, CopyEl(xbeg, xend))
				}
				beg = end
			} else {
				// Not in the old text: pull it from the tombstones.
				end := e
				if oldOK && oldStart < end {
					end = oldStart
				}
				tb := m.DocIndexToSubset(beg)
				te := m.DocIndexToSubset(end)
				els = append(els, InsertEl(tombstones.Subseq(tb, te)))
				beg = end
			}
		}
	}
	return Delta{els: els, baseLen: baseLen}
}

// InsertDelta is a delta containing no deletions: its copies cover the
// entire base in order. Produced by Factor.
type InsertDelta struct {
	Delta
}

// Inserts returns the insertions with their base-coordinate offsets.
func (d InsertDelta) Inserts() []Insertion {
	var out []Insertion
	off := 0
	for _, el := range d.els {
		if el.insert {
			out = append(out, Insertion{Offset: off, Text: el.Text})
		} else {
			off = el.End
		}
	}
	return out
}

// insertDeltaFromInserts rebuilds an insert-only delta from sorted
// insertions over a base of the given length.
func insertDeltaFromInserts(ins []Insertion, baseLen int) InsertDelta {
	var els []Element
	cur := 0
	for _, in := range ins {
		if in.Offset > cur {
			els = append(els, CopyEl(cur, in.Offset))
		}
		els = append(els, InsertEl(in.Text))
		cur = in.Offset
	}
	if cur < baseLen || len(els) == 0 {
		els = append(els, CopyEl(cur, baseLen))
	}
	return InsertDelta{Delta{els: els, baseLen: baseLen}}
}

// TransformExpand rebases the delta through xform, a subset marking
// positions inserted into the delta's base space: the result applies to the
// expanded space. When after is true, insertions at the same position land
// after xform's characters instead of before them.
func (d InsertDelta) TransformExpand(xform subset.Subset, after bool) InsertDelta {
	ins := d.Inserts()
	segs := xform.Segments()
	out := make([]Insertion, 0, len(ins))

	segIdx := 0
	consumed := 0 // bytes consumed of the current (zero) segment
	oldOff, newOff := 0, 0
	for _, in := range ins {
		for oldOff < in.Offset {
			seg := segs[segIdx]
			if seg.Count != 0 {
				newOff += seg.Len
				segIdx++
				continue
			}
			step := seg.Len - consumed
			if rem := in.Offset - oldOff; rem < step {
				step = rem
			}
			oldOff += step
			newOff += step
			consumed += step
			if consumed == seg.Len {
				segIdx++
				consumed = 0
			}
		}
		if after {
			for segIdx < len(segs) && segs[segIdx].Count != 0 && consumed == 0 {
				newOff += segs[segIdx].Len
				segIdx++
			}
		}
		out = append(out, Insertion{Offset: newOff, Text: in.Text})
	}
	return insertDeltaFromInserts(out, xform.Len())
}

// TransformShrink maps the delta through a deletion of parts of its base:
// if the delta applies to a union space and xform is the deletions from that
// union, the result applies to the visible text.
func (d InsertDelta) TransformShrink(xform subset.Subset) InsertDelta {
	m := xform.Mapper(subset.CountZero)
	ins := d.Inserts()
	out := make([]Insertion, 0, len(ins))
	for _, in := range ins {
		out = append(out, Insertion{Offset: m.DocIndexToSubset(in.Offset), Text: in.Text})
	}
	return insertDeltaFromInserts(out, xform.LenAfterDelete())
}

// InsertedSubset returns the subset of the delta's output that it inserted.
func (d InsertDelta) InsertedSubset() subset.Subset {
	var b subset.Builder
	for _, el := range d.els {
		if el.insert {
			b.PushSegment(el.Text.Len(), 1)
		} else {
			b.PushSegment(el.End-el.Beg, 0)
		}
	}
	return b.Build()
}
