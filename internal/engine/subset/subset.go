package subset

import (
	"fmt"
	"strings"

	"github.com/dquist/verso/internal/engine/rope"
)

// Segment is a run of equal-count positions.
type Segment struct {
	Len   int
	Count int
}

// Subset is a multiset of positions within [0, Len()). Positions with a
// non-zero count are "in" the subset. A Subset is immutable once built.
type Subset struct {
	segments []Segment
}

// CountMatcher selects segments by count when iterating or counting.
type CountMatcher int

const (
	// CountZero matches segments with a zero count.
	CountZero CountMatcher = iota
	// CountNonZero matches segments with a non-zero count.
	CountNonZero
	// CountAll matches every segment.
	CountAll
)

func (m CountMatcher) matches(seg Segment) bool {
	switch m {
	case CountZero:
		return seg.Count == 0
	case CountNonZero:
		return seg.Count != 0
	default:
		return true
	}
}

// New creates an empty subset of a space of the given length.
func New(length int) Subset {
	var b Builder
	b.PadToLen(length)
	return b.Build()
}

// Segments returns the subset's run-length segments. The returned slice is
// shared and must not be modified.
func (s Subset) Segments() []Segment {
	return s.segments
}

// Len returns the total length of the space the subset is defined over.
func (s Subset) Len() int {
	return s.Count(CountAll)
}

// Count returns the total length of segments matching the matcher.
func (s Subset) Count(m CountMatcher) int {
	n := 0
	for _, seg := range s.segments {
		if m.matches(seg) {
			n += seg.Len
		}
	}
	return n
}

// LenAfterDelete returns the length of the space after deleting this subset.
func (s Subset) LenAfterDelete() int {
	return s.Count(CountZero)
}

// IsEmpty returns true if the subset contains no positions.
func (s Subset) IsEmpty() bool {
	return s.Count(CountNonZero) == 0
}

// IsTrivial returns true if the subset is empty over an empty space.
func (s Subset) IsTrivial() bool {
	return len(s.segments) == 0
}

// Equals reports whether two subsets have identical segments.
func (s Subset) Equals(other Subset) bool {
	if len(s.segments) != len(other.segments) {
		return false
	}
	for i, seg := range s.segments {
		if seg != other.segments[i] {
			return false
		}
	}
	return true
}

// DeleteFrom returns the rope with the subset's positions removed.
// The rope must have length s.Len().
func (s Subset) DeleteFrom(r rope.Rope) rope.Rope {
	var b rope.Builder
	it := s.Ranges(CountZero)
	for {
		start, end, ok := it.Next()
		if !ok {
			break
		}
		b.Push(r.Subseq(start, end))
	}
	return b.Build()
}

// zip pairs two subsets segment by segment, splitting runs so each produced
// segment has a single count from each side. Panics if the lengths differ:
// zipped subsets must describe the same space.
type zipSegment struct {
	len    int
	countA int
	countB int
}

func (s Subset) zip(other Subset) []zipSegment {
	var out []zipSegment
	ai, bi := 0, 0
	aConsumed, bConsumed := 0, 0
	for ai < len(s.segments) && bi < len(other.segments) {
		a := s.segments[ai]
		b := other.segments[bi]
		alen := a.Len - aConsumed
		blen := b.Len - bConsumed
		n := alen
		if blen < n {
			n = blen
		}
		out = append(out, zipSegment{len: n, countA: a.Count, countB: b.Count})
		aConsumed += n
		bConsumed += n
		if aConsumed == a.Len {
			ai++
			aConsumed = 0
		}
		if bConsumed == b.Len {
			bi++
			bConsumed = 0
		}
	}
	if ai < len(s.segments) || bi < len(other.segments) {
		panic("subset: cannot zip subsets of different lengths")
	}
	return out
}

// Union returns the subset containing positions in either subset.
// Counts are added, preserving multiplicity.
func (s Subset) Union(other Subset) Subset {
	var b Builder
	for _, z := range s.zip(other) {
		b.PushSegment(z.len, z.countA+z.countB)
	}
	return b.Build()
}

// Subtract returns the subset with other's counts removed. Every position in
// other must also be in s; violating this indicates an engine bug.
func (s Subset) Subtract(other Subset) Subset {
	var b Builder
	for _, z := range s.zip(other) {
		if z.countA < z.countB {
			panic("subset: subtract underflow, other is not a subset of the receiver")
		}
		b.PushSegment(z.len, z.countA-z.countB)
	}
	return b.Build()
}

// Bitxor returns the symmetric difference of the two subsets. Bitxor with
// the same argument twice is the identity, which makes it a reversible
// encoding of a subset change.
func (s Subset) Bitxor(other Subset) Subset {
	var b Builder
	for _, z := range s.zip(other) {
		b.PushSegment(z.len, z.countA^z.countB)
	}
	return b.Build()
}

// Complement returns the subset of positions not in s.
func (s Subset) Complement() Subset {
	var b Builder
	for _, seg := range s.segments {
		if seg.Count == 0 {
			b.PushSegment(seg.Len, 1)
		} else {
			b.PushSegment(seg.Len, 0)
		}
	}
	return b.Build()
}

// transform maps the subset through other, where other marks insertions into
// the receiver's coordinate space: the zero-count regions of other must
// exactly cover the receiver. When union is true the inserted regions keep
// other's counts in the result instead of zero.
func (s Subset) transform(other Subset, union bool) Subset {
	var b Builder
	segs := s.segments
	var cur Segment
	for _, oseg := range other.segments {
		if oseg.Count > 0 {
			c := 0
			if union {
				c = oseg.Count
			}
			b.PushSegment(oseg.Len, c)
			continue
		}
		// Fill this zero region with segments from the receiver.
		remaining := oseg.Len
		for remaining > 0 {
			if cur.Len == 0 {
				if len(segs) == 0 {
					panic("subset: transform target does not cover the zero regions of the transform")
				}
				cur = segs[0]
				segs = segs[1:]
			}
			n := cur.Len
			if remaining < n {
				n = remaining
			}
			b.PushSegment(n, cur.Count)
			remaining -= n
			cur.Len -= n
		}
	}
	if cur.Len > 0 || len(segs) > 0 {
		panic("subset: the zero regions of the transform must exactly cover the target")
	}
	return b.Build()
}

// TransformExpand maps the subset into the coordinate space that results
// from inserting other's positions. Inserted positions are not in the result.
func (s Subset) TransformExpand(other Subset) Subset {
	return s.transform(other, false)
}

// TransformUnion is TransformExpand, but the inserted positions are also
// included in the result.
func (s Subset) TransformUnion(other Subset) Subset {
	return s.transform(other, true)
}

// TransformShrink maps the subset into the coordinate space that results
// from deleting other's positions. It is the inverse of TransformExpand
// against the same base; positions of s that fall inside other are dropped.
func (s Subset) TransformShrink(other Subset) Subset {
	var b Builder
	for _, z := range s.zip(other) {
		if z.countB == 0 {
			b.PushSegment(z.len, z.countA)
		}
	}
	return b.Build()
}

// String renders the subset one character per position: '#' for members,
// '-' for the rest. Debug aid only.
func (s Subset) String() string {
	var sb strings.Builder
	for _, seg := range s.segments {
		ch := byte('-')
		if seg.Count != 0 {
			ch = '#'
		}
		for i := 0; i < seg.Len; i++ {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// RangeIter yields the contiguous ranges of positions whose segments match
// a CountMatcher, in ascending order.
type RangeIter struct {
	segments []Segment
	matcher  CountMatcher
	offset   int
}

// Ranges returns an iterator over ranges matching the matcher.
func (s Subset) Ranges(m CountMatcher) *RangeIter {
	return &RangeIter{segments: s.segments, matcher: m}
}

// Next returns the next matching range [start, end). Adjacent matching
// segments are coalesced. ok is false when the iterator is exhausted.
func (it *RangeIter) Next() (start, end int, ok bool) {
	for len(it.segments) > 0 {
		seg := it.segments[0]
		it.segments = it.segments[1:]
		if it.matcher.matches(seg) {
			start = it.offset
			end = it.offset + seg.Len
			it.offset = end
			for len(it.segments) > 0 && it.matcher.matches(it.segments[0]) {
				end += it.segments[0].Len
				it.offset = end
				it.segments = it.segments[1:]
			}
			return start, end, true
		}
		it.offset += seg.Len
	}
	return 0, 0, false
}

// Mapper maps indices in the subset's space to indices in the compacted
// space containing only positions matching the matcher. Queries must be made
// with non-decreasing indices; regressing is an engine bug.
type Mapper struct {
	ranges   *RangeIter
	curStart int
	curEnd   int
	consumed int
	lastIdx  int
}

// Mapper returns a mapper over positions matching the matcher.
func (s Subset) Mapper(m CountMatcher) *Mapper {
	mp := &Mapper{ranges: s.Ranges(m)}
	mp.advance()
	return mp
}

func (mp *Mapper) advance() {
	start, end, ok := mp.ranges.Next()
	if !ok {
		// Sentinel range past every valid index.
		start, end = int(^uint(0)>>1), int(^uint(0)>>1)
	}
	mp.curStart, mp.curEnd = start, end
}

// DocIndexToSubset maps an index in the full space to an index in the
// compacted space of matching positions. Indices not inside a matching range
// map to the count of matching positions before them.
func (mp *Mapper) DocIndexToSubset(idx int) int {
	if idx < mp.lastIdx {
		panic(fmt.Sprintf("subset: mapper queried with regressing index %d after %d", idx, mp.lastIdx))
	}
	mp.lastIdx = idx
	for idx >= mp.curEnd {
		mp.consumed += mp.curEnd - mp.curStart
		mp.advance()
	}
	if idx >= mp.curStart {
		return mp.consumed + (idx - mp.curStart)
	}
	return mp.consumed
}
