// Package selection provides multi-region selections used to address edits.
package selection

import "sort"

// SelRegion is a single selected span. Anchor is where the selection
// started; Head is the active end (where typing occurs). Anchor == Head
// represents a caret. SelRegion is an immutable value type.
type SelRegion struct {
	Anchor int
	Head   int
}

// NewRegion creates a region from anchor to head.
func NewRegion(anchor, head int) SelRegion {
	return SelRegion{Anchor: anchor, Head: head}
}

// NewCaret creates a zero-width region at the offset.
func NewCaret(offset int) SelRegion {
	return SelRegion{Anchor: offset, Head: offset}
}

// Min returns the lower bound of the region.
func (r SelRegion) Min() int {
	if r.Anchor <= r.Head {
		return r.Anchor
	}
	return r.Head
}

// Max returns the upper bound of the region.
func (r SelRegion) Max() int {
	if r.Anchor >= r.Head {
		return r.Anchor
	}
	return r.Head
}

// IsCaret returns true if the region has no extent.
func (r SelRegion) IsCaret() bool {
	return r.Anchor == r.Head
}

// Len returns the length of the region in bytes.
func (r SelRegion) Len() int {
	return r.Max() - r.Min()
}

// Selection is an ordered set of regions. The zero value is an empty
// selection.
type Selection struct {
	regions []SelRegion
}

// New creates an empty selection.
func New() Selection {
	return Selection{}
}

// Caret creates a selection holding a single caret at the offset.
func Caret(offset int) Selection {
	return Selection{regions: []SelRegion{NewCaret(offset)}}
}

// Region creates a selection holding a single region.
func Region(anchor, head int) Selection {
	return Selection{regions: []SelRegion{NewRegion(anchor, head)}}
}

// Add returns a new selection including the region, kept in ascending
// order by Min.
func (s Selection) Add(r SelRegion) Selection {
	regions := make([]SelRegion, 0, len(s.regions)+1)
	regions = append(regions, s.regions...)
	regions = append(regions, r)
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Min() != regions[j].Min() {
			return regions[i].Min() < regions[j].Min()
		}
		return regions[i].Max() < regions[j].Max()
	})
	return Selection{regions: regions}
}

// Regions returns the regions in ascending order. The slice is shared and
// must not be modified.
func (s Selection) Regions() []SelRegion {
	return s.regions
}

// Len returns the number of regions.
func (s Selection) Len() int {
	return len(s.regions)
}

// IsEmpty returns true if the selection has no regions.
func (s Selection) IsEmpty() bool {
	return len(s.regions) == 0
}
