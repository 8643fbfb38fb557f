package subset

// Builder assembles a Subset from runs or ranges. The zero value is ready
// to use. Ranges must be added in ascending order.
type Builder struct {
	segments []Segment
	totalLen int
}

// PushSegment appends a run of the given count. Zero-length runs are
// ignored; adjacent runs with equal counts are merged.
func (b *Builder) PushSegment(length, count int) {
	if length == 0 {
		return
	}
	b.totalLen += length
	if n := len(b.segments); n > 0 && b.segments[n-1].Count == count {
		b.segments[n-1].Len += length
		return
	}
	b.segments = append(b.segments, Segment{Len: length, Count: count})
}

// AddRange marks [begin, end) with the given count, padding any gap since
// the previous range with zero count. Panics if ranges regress.
func (b *Builder) AddRange(begin, end, count int) {
	if begin < b.totalLen {
		panic("subset: ranges must be added in ascending order")
	}
	b.PushSegment(begin-b.totalLen, 0)
	b.PushSegment(end-begin, count)
}

// PadToLen fills the remainder of the space up to totalLen with zero count.
func (b *Builder) PadToLen(totalLen int) {
	if totalLen > b.totalLen {
		b.PushSegment(totalLen-b.totalLen, 0)
	}
}

// Build returns the completed subset.
func (b *Builder) Build() Subset {
	return Subset{segments: b.segments}
}
