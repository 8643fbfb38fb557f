package buffer

import (
	"errors"
	"sort"
	"sync/atomic"

	"github.com/dquist/verso/internal/engine/delta"
	"github.com/dquist/verso/internal/engine/rope"
	"github.com/dquist/verso/internal/engine/selection"
	"github.com/dquist/verso/internal/engine/subset"
)

// Errors returned by buffer operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// EditOp is a single replacement: every region of the selection is replaced
// by Text.
type EditOp struct {
	Selection selection.Selection
	Text      string
}

// Buffer owns the visible text, the tombstones, the deletes-from-union
// subset, and the revision log. It is a single-writer structure with no
// internal locking; see the package documentation.
type Buffer struct {
	text             rope.Rope
	tombstones       rope.Rope
	deletesFromUnion subset.Subset

	revs          []Revision
	revCounter    uint64
	pristineRevID uint64
	atomicRev     *atomic.Uint64

	// Undo bookkeeping. liveUndos holds the undo group ids in creation
	// order; curUndo partitions it into done (< curUndo) and available
	// for redo (>= curUndo). Group 0 is a sentinel and never undoable.
	curUndo      int
	liveUndos    []int
	undoGroupID  int
	undoneGroups map[int]bool

	lastEditType EditType
	thisEditType EditType
	policy       GroupPolicy

	lineEnding LineEnding

	// Pending pre-edit cursor snapshot, attached to the next committed
	// revision.
	cursorBefore *selection.Selection
}

// New creates an empty buffer. Revision 0 is a sentinel empty Undo
// revision; a new buffer is pristine.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		text:             rope.New(),
		tombstones:       rope.New(),
		deletesFromUnion: subset.New(0),
		revs: []Revision{{
			Num:          0,
			MaxUndoSoFar: 0,
			Edit: UndoContents{
				ToggledGroups: map[int]bool{},
				DeletesBitxor: subset.New(0),
			},
		}},
		revCounter:   1,
		atomicRev:    &atomic.Uint64{},
		curUndo:      1,
		liveUndos:    []int{0},
		undoGroupID:  1,
		undoneGroups: map[int]bool{},
		policy:       DefaultGroupPolicy(),
		lineEnding:   LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content, already pristine.
func NewFromString(content string, opts ...Option) *Buffer {
	b := New(opts...)
	b.InitContent(content)
	return b
}

// InitContent loads the initial document content as revision 1 and marks
// the buffer pristine.
func (b *Buffer) InitContent(content string) {
	if content != "" {
		content = b.normalizeLineEndings(content)
		builder := delta.NewBuilder(b.text.Len())
		builder.Replace(0, b.text.Len(), rope.FromString(content))
		d := builder.Build()
		rev, newText, newTombstones, newDeletesFromUnion, _ := b.mkNewRev(0, d)
		b.applyEdit(d, rev, newText, newTombstones, newDeletesFromUnion)
	}
	b.SetPristine()
}

// Reload replaces the whole document with new content as a single Other
// edit. When setPristine is true the new state becomes the save point.
func (b *Buffer) Reload(content string, setPristine bool) (delta.Delta, InvalLines, []TreeEdit) {
	content = b.normalizeLineEndings(content)
	builder := delta.NewBuilder(b.text.Len())
	builder.Replace(0, b.text.Len(), rope.FromString(content))
	b.thisEditType = EditTypeOther
	d, inval, edits := b.addDelta(builder.Build())
	b.lastEditType = b.thisEditType
	if setPristine {
		b.SetPristine()
	}
	return d, inval, edits
}

// Edit applies a multi-region edit. Each op replaces every region of its
// selection with the op's text; the flattened ranges are sorted and must
// not overlap (overlap is a caller bug and panics in the delta builder).
// Equal ranges are kept once; a range ending exactly where another begins
// sorts first. The edit type drives undo grouping.
//
// Exactly one Edit revision is appended; the applied delta, an invalidated
// line summary, and syntax-edit records are returned.
func (b *Buffer) Edit(ops []EditOp, editType EditType) (delta.Delta, InvalLines, []TreeEdit) {
	type span struct {
		start, end int
		text       rope.Rope
	}
	var spans []span
	for _, op := range ops {
		text := rope.FromString(op.Text)
		for _, region := range op.Selection.Regions() {
			spans = append(spans, span{start: region.Min(), end: region.Max(), text: text})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		a, c := spans[i], spans[j]
		if a.start == c.start && a.end == c.end {
			return false
		}
		return a.end <= c.start
	})

	builder := delta.NewBuilder(b.text.Len())
	for i, sp := range spans {
		if i > 0 && sp.start == spans[i-1].start && sp.end == spans[i-1].end {
			continue // duplicate range
		}
		builder.Replace(sp.start, sp.end, sp.text)
	}

	b.thisEditType = editType
	d, inval, edits := b.addDelta(builder.Build())
	b.lastEditType = b.thisEditType
	return d, inval, edits
}

// addDelta commits a delta as a new Edit revision.
func (b *Buffer) addDelta(d delta.Delta) (delta.Delta, InvalLines, []TreeEdit) {
	undoGroup := b.calculateUndoGroup()
	rev, newText, newTombstones, newDeletesFromUnion, edits := b.mkNewRev(undoGroup, d)
	inval := b.applyEdit(d, rev, newText, newTombstones, newDeletesFromUnion)
	return d, inval, edits
}

// calculateUndoGroup returns the undo group for the current edit. The edit
// joins the top-of-stack group when the policy allows its type to continue
// the previous edit's type; otherwise a fresh group is allocated, which
// also discards any groups available for redo.
func (b *Buffer) calculateUndoGroup() int {
	hasUndos := len(b.liveUndos) > 0
	unbroken := b.policy.Continues(b.lastEditType, b.thisEditType)
	if hasUndos && unbroken {
		return b.liveUndos[len(b.liveUndos)-1]
	}
	group := b.undoGroupID
	b.liveUndos = b.liveUndos[:b.curUndo]
	b.liveUndos = append(b.liveUndos, group)
	b.curUndo = len(b.liveUndos)
	b.undoGroupID++
	return group
}

// mkNewRev rebases a delta against the union space and produces the new
// Edit revision together with the new text, tombstones, and
// deletes-from-union. It does not mutate the buffer.
func (b *Buffer) mkNewRev(undoGroup int, d delta.Delta) (Revision, rope.Rope, rope.Rope, subset.Subset, []TreeEdit) {
	insDelta, deletes := d.Factor()
	edits := b.generateEdits(insDelta, deletes)

	// Rebase the insertions and deletions into union coordinates.
	unionInsDelta := insDelta.TransformExpand(b.deletesFromUnion, true)
	newInserts := unionInsDelta.InsertedSubset()
	newDeletes := deletes.TransformExpand(b.deletesFromUnion)
	if !newInserts.IsEmpty() {
		newDeletes = newDeletes.TransformExpand(newInserts)
	}

	textInsDelta := unionInsDelta.TransformShrink(b.deletesFromUnion)
	textWithInserts := textInsDelta.Apply(b.text)

	rebasedDeletesFromUnion := b.deletesFromUnion.TransformExpand(newInserts)

	// If this edit's group is already undone, hide the fresh inserts
	// immediately instead of applying the deletes. This is what lets
	// undo/redo and forward edits share one code path.
	toDelete := newDeletes
	if b.undoneGroups[undoGroup] {
		toDelete = newInserts
	}
	newDeletesFromUnion := rebasedDeletesFromUnion.Union(toDelete)

	newText, newTombstones := shuffle(textWithInserts, b.tombstones, rebasedDeletesFromUnion, newDeletesFromUnion)

	head := b.revs[len(b.revs)-1]
	maxUndoSoFar := head.MaxUndoSoFar
	if undoGroup > maxUndoSoFar {
		maxUndoSoFar = undoGroup
	}
	rev := Revision{
		Num:          b.revCounter,
		MaxUndoSoFar: maxUndoSoFar,
		Edit: EditContents{
			UndoGroup: undoGroup,
			Inserts:   newInserts,
			Deletes:   newDeletes,
		},
		CursorBefore: b.takeCursorBefore(),
	}
	return rev, newText, newTombstones, newDeletesFromUnion, edits
}

// applyEdit atomically commits a prepared revision: the log, text,
// tombstones, and subset are updated together, and the atomic revision is
// published strictly after the state is consistent.
func (b *Buffer) applyEdit(d delta.Delta, rev Revision, newText, newTombstones rope.Rope, newDeletesFromUnion subset.Subset) InvalLines {
	start, end, newLen := d.Summary()
	oldLogicalEndLine := b.text.LineOfOffset(end) + 1
	oldText := b.text.Subseq(start, end)

	b.revs = append(b.revs, rev)
	b.text = newText
	b.tombstones = newTombstones
	b.deletesFromUnion = newDeletesFromUnion
	b.revCounter++
	b.atomicRev.Store(rev.Num)

	startLine := b.text.LineOfOffset(start)
	newLogicalEndLine := b.text.LineOfOffset(start+newLen) + 1
	return InvalLines{
		StartLine:  startLine,
		InvalCount: oldLogicalEndLine - startLine,
		NewCount:   newLogicalEndLine - startLine,
		OldText:    oldText,
	}
}

// shuffle moves exactly the right characters between the visible text and
// the tombstones when deletes-from-union changes from old to new.
func shuffle(text, tombstones rope.Rope, oldDeletesFromUnion, newDeletesFromUnion subset.Subset) (rope.Rope, rope.Rope) {
	delDelta := delta.Synthesize(tombstones, oldDeletesFromUnion, newDeletesFromUnion)
	newText := delDelta.Apply(text)
	return newText, shuffleTombstones(text, tombstones, oldDeletesFromUnion, newDeletesFromUnion)
}

// shuffleTombstones is the dual of shuffle's text move: taking the
// complement of deletes-from-union yields an interleaving valid for the
// swapped text and tombstones, so the same synthesize covers both
// directions.
func shuffleTombstones(text, tombstones rope.Rope, oldDeletesFromUnion, newDeletesFromUnion subset.Subset) rope.Rope {
	inverseTombstonesMap := oldDeletesFromUnion.Complement()
	moveDelta := delta.Synthesize(text, inverseTombstonesMap, newDeletesFromUnion.Complement())
	return moveDelta.Apply(tombstones)
}

// Read accessors. All state is persistent, so returned values are stable
// snapshots.

// Text returns the visible document text.
func (b *Buffer) Text() string {
	return b.text.String()
}

// Rope returns the visible text as a rope snapshot.
func (b *Buffer) Rope() rope.Rope {
	return b.text
}

// Tombstones returns the retained deleted text.
func (b *Buffer) Tombstones() rope.Rope {
	return b.tombstones
}

// DeletesFromUnion returns the current deletes-from-union subset.
func (b *Buffer) DeletesFromUnion() subset.Subset {
	return b.deletesFromUnion
}

// Len returns the visible text length in bytes.
func (b *Buffer) Len() int {
	return b.text.Len()
}

// LineCount returns the number of visible lines.
func (b *Buffer) LineCount() int {
	return b.text.LineCount()
}

// Slice returns visible text in [start, end).
func (b *Buffer) Slice(start, end int) string {
	return b.text.Slice(start, end)
}

// IsEmpty returns true if the visible text is empty.
func (b *Buffer) IsEmpty() bool {
	return b.text.IsEmpty()
}

// Rev returns the current revision number.
func (b *Buffer) Rev() uint64 {
	return b.revs[len(b.revs)-1].Num
}

// AtomicRev returns the shared atomic revision handle. Background workers
// capture its value before starting and discard their result if it has
// since changed; the counter is monotonic and updated strictly after each
// revision commits.
func (b *Buffer) AtomicRev() *atomic.Uint64 {
	return b.atomicRev
}

// RevCount returns the number of revisions in the log, including the
// sentinel revision 0.
func (b *Buffer) RevCount() int {
	return len(b.revs)
}

// LastEditType returns the type of the most recent committed operation.
func (b *Buffer) LastEditType() EditType {
	return b.lastEditType
}

// SetPristine records the current revision as the save point.
func (b *Buffer) SetPristine() {
	b.pristineRevID = b.Rev()
}

// IsPristine reports whether the current visible text is equivalent to the
// text at the last save point. Equivalence is decided by replaying subset
// state, never by diffing text.
func (b *Buffer) IsPristine() bool {
	return b.isEquivalentRevision(b.pristineRevID, b.Rev())
}

// SetCursorBefore attaches a pre-edit selection snapshot to the next
// committed revision.
func (b *Buffer) SetCursorBefore(sel selection.Selection) {
	b.cursorBefore = &sel
}

// SetCursorAfter attaches a post-edit selection snapshot to the most
// recently committed revision.
func (b *Buffer) SetCursorAfter(sel selection.Selection) {
	b.revs[len(b.revs)-1].CursorAfter = &sel
}

func (b *Buffer) takeCursorBefore() *selection.Selection {
	c := b.cursorBefore
	b.cursorBefore = nil
	return c
}
