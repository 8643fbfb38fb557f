package buffer

import (
	"github.com/dquist/verso/internal/engine/delta"
	"github.com/dquist/verso/internal/engine/rope"
	"github.com/dquist/verso/internal/engine/subset"
)

// InvalLines summarizes the line range invalidated by one committed
// revision, for renderers that cache per-line state.
type InvalLines struct {
	StartLine  int
	InvalCount int
	NewCount   int
	// OldText is the replaced visible text, retained so listeners can
	// diff without consulting tombstones.
	OldText rope.Rope
}

// TreeEdit describes one edit in the byte/point form incremental parsers
// consume. Offsets are bytes; points are zero-based line and column.
type TreeEdit struct {
	StartByte   int
	OldEndByte  int
	NewEndByte  int
	StartPoint  rope.Point
	OldEndPoint rope.Point
	NewEndPoint rope.Point
}

// generateEdits converts a factored delta into parser edit records.
// Inserts are emitted against the pre-edit text at their base offsets,
// deletes against the text with inserts applied; each batch is ordered
// back to front so earlier records do not shift later offsets.
func (b *Buffer) generateEdits(insDelta delta.InsertDelta, deletes subset.Subset) []TreeEdit {
	deletes = deletes.TransformExpand(insDelta.InsertedSubset())

	var edits []TreeEdit
	inserts := insDelta.Inserts()
	for i := len(inserts) - 1; i >= 0; i-- {
		edits = append(edits, createInsertEdit(b.text, inserts[i].Offset, inserts[i].Text))
	}

	textWithInserts := insDelta.Apply(b.text)
	var deleteEdits []TreeEdit
	it := deletes.Ranges(subset.CountNonZero)
	for {
		start, end, ok := it.Next()
		if !ok {
			break
		}
		deleteEdits = append(deleteEdits, createDeleteEdit(textWithInserts, start, end))
	}
	for i := len(deleteEdits) - 1; i >= 0; i-- {
		edits = append(edits, deleteEdits[i])
	}
	return edits
}

func createInsertEdit(text rope.Rope, start int, inserted rope.Rope) TreeEdit {
	startPoint := text.OffsetToPoint(start)
	return TreeEdit{
		StartByte:   start,
		OldEndByte:  start,
		NewEndByte:  start + inserted.Len(),
		StartPoint:  startPoint,
		OldEndPoint: startPoint,
		NewEndPoint: advancePoint(startPoint, inserted),
	}
}

func createDeleteEdit(text rope.Rope, start, end int) TreeEdit {
	startPoint := text.OffsetToPoint(start)
	return TreeEdit{
		StartByte:   start,
		OldEndByte:  end,
		NewEndByte:  start,
		StartPoint:  startPoint,
		OldEndPoint: text.OffsetToPoint(end),
		NewEndPoint: startPoint,
	}
}

// advancePoint moves a point forward over inserted text.
func advancePoint(p rope.Point, inserted rope.Rope) rope.Point {
	s := inserted.String()
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			p.Line++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}
