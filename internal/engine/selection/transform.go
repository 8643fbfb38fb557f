package selection

import "github.com/dquist/verso/internal/engine/delta"

// Transform maps the selection through an applied delta, with carets at
// insertion points moving after the inserted text.
func (s Selection) Transform(d delta.Delta) Selection {
	return s.TransformWith(d, true)
}

// TransformWith maps the selection through an applied delta. When after
// is false, carets at insertion points stay before the inserted text.
func (s Selection) TransformWith(d delta.Delta, after bool) Selection {
	out := New()
	for _, r := range s.regions {
		out = out.Add(NewRegion(
			d.TransformOffset(r.Anchor, after),
			d.TransformOffset(r.Head, after),
		))
	}
	return out
}
