package buffer

import (
	"github.com/dquist/verso/internal/engine/selection"
	"github.com/dquist/verso/internal/engine/subset"
)

// Revision is one append-only log entry: either a forward edit or an
// undo/redo state change. Revisions are never modified after being
// appended.
type Revision struct {
	// Num uniquely identifies the revision; strictly increasing along
	// the log.
	Num uint64

	// MaxUndoSoFar is the highest undo group id seen up to and including
	// this revision. Non-decreasing along the log; it bounds how far back
	// an undo computation must replay.
	MaxUndoSoFar int

	// Edit describes the change: EditContents or UndoContents.
	Edit Contents

	// CursorBefore and CursorAfter optionally snapshot the selection
	// around the edit so undo/redo can restore it. Nil when not recorded.
	CursorBefore *selection.Selection
	CursorAfter  *selection.Selection
}

// Contents is the payload of a Revision.
type Contents interface {
	isContents()
}

// EditContents records a forward edit: the characters it inserted and
// deleted, both expressed against the union space after this revision.
type EditContents struct {
	UndoGroup int
	Inserts   subset.Subset
	Deletes   subset.Subset
}

func (EditContents) isContents() {}

// UndoContents records an undo/redo state change: which undo groups
// flipped, and the symmetric difference of deletes-from-union before and
// after. Bitxor is self-inverse, so re-toggling the same groups later
// exactly reverses this revision's subset change.
type UndoContents struct {
	ToggledGroups map[int]bool
	DeletesBitxor subset.Subset
}

func (UndoContents) isContents() {}

// cloneGroups copies a group set.
func cloneGroups(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for g := range s {
		out[g] = true
	}
	return out
}

// symmetricDifference returns the groups present in exactly one of the
// two sets.
func symmetricDifference(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for g := range a {
		if !b[g] {
			out[g] = true
		}
	}
	for g := range b {
		if !a[g] {
			out[g] = true
		}
	}
	return out
}

// minGroup returns the smallest group id in the set.
func minGroup(s map[int]bool) (int, bool) {
	first := true
	min := 0
	for g := range s {
		if first || g < min {
			min = g
			first = false
		}
	}
	return min, !first
}
