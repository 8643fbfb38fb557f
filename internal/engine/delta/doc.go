// Package delta represents edits as copy/insert scripts over an old text.
//
// A Delta is an ordered list of Copy(range) and Insert(text) elements that
// transforms a base sequence into a new one. Deltas are built with Builder
// from sorted, non-overlapping replacements, applied to ropes with Apply,
// and decomposed with Factor into an insertion-only delta plus a deletion
// subset — the form the revision log stores.
//
// Synthesize runs the other way: it builds an applicable delta purely from
// two deletion subsets plus the rope holding the deleted content, which is
// how undo produces an edit without replaying history.
//
// InsertDelta additionally supports the coordinate transforms used to rebase
// an edit against the union space (TransformExpand) and project it back down
// to visible text (TransformShrink).
package delta
