package buffer

import (
	"github.com/dquist/verso/internal/engine/delta"
	"github.com/dquist/verso/internal/engine/selection"
	"github.com/dquist/verso/internal/engine/subset"
)

// DoUndo undoes the most recent live undo group. It returns the applied
// delta, invalidated lines, syntax edits, and the selection snapshot taken
// before the undone edit, when one was recorded.
func (b *Buffer) DoUndo() (delta.Delta, InvalLines, []TreeEdit, *selection.Selection, error) {
	if b.curUndo <= 1 {
		return delta.Delta{}, InvalLines{}, nil, nil, ErrNothingToUndo
	}
	b.curUndo--
	groups := cloneGroups(b.undoneGroups)
	groups[b.liveUndos[b.curUndo]] = true
	b.lastEditType = EditTypeUndo
	d, inval, edits, cursor := b.undo(groups)
	return d, inval, edits, cursor.before, nil
}

// DoRedo re-applies the most recently undone group.
func (b *Buffer) DoRedo() (delta.Delta, InvalLines, []TreeEdit, *selection.Selection, error) {
	if b.curUndo >= len(b.liveUndos) {
		return delta.Delta{}, InvalLines{}, nil, nil, ErrNothingToRedo
	}
	groups := cloneGroups(b.undoneGroups)
	delete(groups, b.liveUndos[b.curUndo])
	b.curUndo++
	b.lastEditType = EditTypeRedo
	d, inval, edits, cursor := b.undo(groups)
	return d, inval, edits, cursor.after, nil
}

type undoCursor struct {
	before *selection.Selection
	after  *selection.Selection
}

// undo transitions the buffer so that exactly the given groups are undone,
// committing a single Undo revision.
func (b *Buffer) undo(groups map[int]bool) (delta.Delta, InvalLines, []TreeEdit, undoCursor) {
	rev, newDeletesFromUnion, cursor := b.computeUndo(groups)

	d := delta.Synthesize(b.tombstones, b.deletesFromUnion, newDeletesFromUnion)
	insDelta, deletes := d.Factor()
	edits := b.generateEdits(insDelta, deletes)

	newText := d.Apply(b.text)
	newTombstones := shuffleTombstones(b.text, b.tombstones, b.deletesFromUnion, newDeletesFromUnion)
	b.undoneGroups = groups

	inval := b.applyEdit(d, rev, newText, newTombstones, newDeletesFromUnion)
	return d, inval, edits, cursor
}

// computeUndo derives the deletes-from-union that results from toggling
// the difference between the current undone set and groups. It replays
// only the suffix of the log that can contain a toggled group, bounded by
// MaxUndoSoFar, inverting the current state back to the replay point
// first.
func (b *Buffer) computeUndo(groups map[int]bool) (Revision, subset.Subset, undoCursor) {
	toggledGroups := symmetricDifference(b.undoneGroups, groups)
	firstCandidate := b.findFirstUndoCandidateIndex(toggledGroups)
	// Replay is seeded from the current undone set, so Undo revisions in
	// the suffix must not be re-inverted.
	deletesFromUnion := b.deletesFromUnionBeforeIndex(firstCandidate, false)

	for i := firstCandidate; i < len(b.revs); i++ {
		edit, ok := b.revs[i].Edit.(EditContents)
		if !ok {
			continue
		}
		if groups[edit.UndoGroup] {
			if !edit.Inserts.IsEmpty() {
				deletesFromUnion = deletesFromUnion.TransformUnion(edit.Inserts)
			}
		} else {
			if !edit.Inserts.IsEmpty() {
				deletesFromUnion = deletesFromUnion.TransformExpand(edit.Inserts)
			}
			if !edit.Deletes.IsEmpty() {
				deletesFromUnion = deletesFromUnion.Union(edit.Deletes)
			}
		}
	}

	var cursor undoCursor
	if firstCandidate < len(b.revs) {
		cursor.before = b.revs[firstCandidate].CursorBefore
		cursor.after = b.revs[firstCandidate].CursorAfter
	}

	deletesBitxor := b.deletesFromUnion.Bitxor(deletesFromUnion)
	rev := Revision{
		Num:          b.revCounter,
		MaxUndoSoFar: b.revs[len(b.revs)-1].MaxUndoSoFar,
		Edit: UndoContents{
			ToggledGroups: toggledGroups,
			DeletesBitxor: deletesBitxor,
		},
	}
	return rev, deletesFromUnion, cursor
}

// findFirstUndoCandidateIndex returns the index of the first revision that
// could contain a toggled group. MaxUndoSoFar is monotone over the log, so
// a backward scan can stop at the first revision whose value is below the
// lowest toggled group.
func (b *Buffer) findFirstUndoCandidateIndex(toggledGroups map[int]bool) int {
	lowest, ok := minGroup(toggledGroups)
	if !ok {
		return len(b.revs)
	}
	for i := len(b.revs) - 1; i >= 0; i-- {
		if b.revs[i].MaxUndoSoFar < lowest {
			return i + 1
		}
	}
	return 0
}

// deletesFromUnionForIndex returns the deletes-from-union as it was just
// after the revision at the given index committed.
func (b *Buffer) deletesFromUnionForIndex(revIndex int) subset.Subset {
	return b.deletesFromUnionBeforeIndex(revIndex+1, true)
}

// deletesFromUnionBeforeIndex reconstructs the deletes-from-union as it
// was before the revision at revIndex, by inverting each later revision's
// effect from the present backwards. Edits shrink their inserts out and
// subtract their deletes; Undo revisions are self-inverse bitxor masks and
// are skipped when invertUndos is false.
func (b *Buffer) deletesFromUnionBeforeIndex(revIndex int, invertUndos bool) subset.Subset {
	deletesFromUnion := b.deletesFromUnion
	undoneGroups := b.undoneGroups

	for i := len(b.revs) - 1; i >= revIndex; i-- {
		switch edit := b.revs[i].Edit.(type) {
		case EditContents:
			if undoneGroups[edit.UndoGroup] {
				// Undone inserts were never visible; shrinking them
				// out also removes their hiding deletes.
				deletesFromUnion = deletesFromUnion.TransformShrink(edit.Inserts)
			} else {
				deletesFromUnion = deletesFromUnion.Subtract(edit.Deletes).TransformShrink(edit.Inserts)
			}
		case UndoContents:
			if invertUndos {
				undoneGroups = symmetricDifference(undoneGroups, edit.ToggledGroups)
				deletesFromUnion = deletesFromUnion.Bitxor(edit.DeletesBitxor)
			}
		}
	}
	return deletesFromUnion
}

// deletesFromCurUnionForIndex is like deletesFromUnionForIndex, but also
// hides any text inserted by later revisions, giving a subset of the
// current union that selects exactly the text visible at that revision.
func (b *Buffer) deletesFromCurUnionForIndex(revIndex int) subset.Subset {
	deletesFromUnion := b.deletesFromUnionForIndex(revIndex)
	for i := revIndex + 1; i < len(b.revs); i++ {
		if edit, ok := b.revs[i].Edit.(EditContents); ok && !edit.Inserts.IsEmpty() {
			deletesFromUnion = deletesFromUnion.TransformUnion(edit.Inserts)
		}
	}
	return deletesFromUnion
}

// findRev returns the index of the revision with the given number,
// searching backwards since queries are usually near the head.
func (b *Buffer) findRev(num uint64) (int, bool) {
	for i := len(b.revs) - 1; i >= 0; i-- {
		if b.revs[i].Num == num {
			return i, true
		}
	}
	return 0, false
}

// isEquivalentRevision reports whether two revisions have identical
// visible text, decided by comparing their visibility subsets over the
// current union. An undo that exactly restores earlier content compares
// equal even though the revision numbers differ.
func (b *Buffer) isEquivalentRevision(baseRev, otherRev uint64) bool {
	baseIndex, ok := b.findRev(baseRev)
	if !ok {
		return false
	}
	otherIndex, ok := b.findRev(otherRev)
	if !ok {
		return false
	}
	baseSubset := b.deletesFromCurUnionForIndex(baseIndex)
	otherSubset := b.deletesFromCurUnionForIndex(otherIndex)
	return baseSubset.Equals(otherSubset)
}
