package engine

import (
	"context"
	"io"
	"sync"

	"github.com/dquist/verso/internal/engine/buffer"
	"github.com/dquist/verso/internal/engine/delta"
	"github.com/dquist/verso/internal/engine/rope"
	"github.com/dquist/verso/internal/engine/selection"
	"github.com/dquist/verso/internal/event"
)

// Re-export commonly used types for convenience.
type (
	// Point represents a line/column position.
	Point = rope.Point

	// EditOp represents a single replacement over a selection.
	EditOp = buffer.EditOp

	// EditType classifies an edit for undo grouping.
	EditType = buffer.EditType

	// GroupPolicy decides which consecutive edit types share an undo group.
	GroupPolicy = buffer.GroupPolicy

	// Selection is a sorted set of selection regions.
	Selection = selection.Selection

	// SelRegion is a single anchor/head region.
	SelRegion = selection.SelRegion

	// Delta describes a committed change against the pre-edit text.
	Delta = delta.Delta

	// InvalLines summarizes the lines invalidated by an edit.
	InvalLines = buffer.InvalLines

	// TreeEdit is an incremental-parser edit record.
	TreeEdit = buffer.TreeEdit

	// LineEnding specifies the line ending normalization.
	LineEnding = buffer.LineEnding
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF

	EditTypeOther           = buffer.EditTypeOther
	EditTypeInsertChars     = buffer.EditTypeInsertChars
	EditTypeInsertNewline   = buffer.EditTypeInsertNewline
	EditTypeDelete          = buffer.EditTypeDelete
	EditTypeDeleteSelection = buffer.EditTypeDeleteSelection
	EditTypeIndent          = buffer.EditTypeIndent
	EditTypeOutdent         = buffer.EditTypeOutdent
	EditTypeToggleComment   = buffer.EditTypeToggleComment
	EditTypePaste           = buffer.EditTypePaste
	EditTypeUndo            = buffer.EditTypeUndo
	EditTypeRedo            = buffer.EditTypeRedo
)

// EditResult describes one committed revision: the applied delta, the
// invalidated line range, and parser edit records.
type EditResult struct {
	Delta      Delta
	InvalLines InvalLines
	Edits      []TreeEdit
	Rev        uint64
}

// Engine is the main facade for the versioned text engine. It combines
// the revision-log buffer with a current selection behind a single lock.
//
// All operations are thread-safe and can be called from multiple
// goroutines; edits serialize through the write lock.
type Engine struct {
	mu sync.RWMutex

	buf *buffer.Buffer
	sel Selection
	bus *event.Bus

	// Configuration
	lineEnding  LineEnding
	groupPolicy GroupPolicy
	readOnly    bool

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		lineEnding:  buffer.LineEndingLF,
		groupPolicy: buffer.DefaultGroupPolicy(),
		sel:         selection.Caret(0),
	}
	for _, opt := range opts {
		opt(e)
	}

	bufOpts := []buffer.Option{
		buffer.WithLineEnding(e.lineEnding),
		buffer.WithGroupPolicy(e.groupPolicy),
	}
	e.buf = buffer.New(bufOpts...)
	if e.initContent != "" {
		e.buf.InitContent(e.initContent)
	} else {
		e.buf.SetPristine()
	}
	return e
}

// NewFromReader creates an Engine whose initial content is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithContent(string(content)))
	return New(opts...), nil
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full visible text.
// For large documents, prefer Slice.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// Slice returns visible text in [start, end).
func (e *Engine) Slice(start, end int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Slice(start, end)
}

// Len returns the visible text length in bytes.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// IsEmpty returns true if the document is empty.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsEmpty()
}

// Rope returns a snapshot of the visible text. The snapshot is immutable
// and remains valid across later edits.
func (e *Engine) Rope() rope.Rope {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Rope()
}

// LastEditType returns the type of the most recent operation.
func (e *Engine) LastEditType() EditType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LastEditType()
}

// ============================================================================
// Position Conversion
// ============================================================================

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset int) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Rope().OffsetToPoint(offset)
}

// LineOfOffset returns the line containing the given offset.
func (e *Engine) LineOfOffset(offset int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Rope().LineOfOffset(offset)
}

// OffsetOfLine returns the byte offset of the start of a line.
func (e *Engine) OffsetOfLine(line int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Rope().OffsetOfLine(line)
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at the given offset as an InsertChars edit.
// Returns the end position of the inserted text.
func (e *Engine) Insert(offset int, text string) (int, EditResult, error) {
	res, err := e.Edit([]EditOp{{
		Selection: selection.Caret(offset),
		Text:      text,
	}}, EditTypeInsertChars)
	if err != nil {
		return 0, EditResult{}, err
	}
	return offset + len(text), res, nil
}

// Delete removes text in [start, end) as a Delete edit.
func (e *Engine) Delete(start, end int) (EditResult, error) {
	return e.Edit([]EditOp{{
		Selection: selection.Region(start, end),
	}}, EditTypeDelete)
}

// Replace replaces text in [start, end) as an Other edit.
func (e *Engine) Replace(start, end int, text string) (EditResult, error) {
	return e.Edit([]EditOp{{
		Selection: selection.Region(start, end),
		Text:      text,
	}}, EditTypeOther)
}

// Edit applies a multi-region edit as one revision. The edit type drives
// undo grouping; the current selection is snapshotted onto the revision
// for cursor recovery on undo.
func (e *Engine) Edit(ops []EditOp, editType EditType) (EditResult, error) {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return EditResult{}, ErrReadOnly
	}

	wasPristine := e.buf.IsPristine()
	e.buf.SetCursorBefore(e.sel)
	d, inval, edits := e.buf.Edit(ops, editType)
	e.sel = e.sel.Transform(d)
	e.buf.SetCursorAfter(e.sel)
	res := EditResult{Delta: d, InvalLines: inval, Edits: edits, Rev: e.buf.Rev()}
	isPristine := e.buf.IsPristine()
	e.mu.Unlock()

	e.publish(editType, res, wasPristine, isPristine)
	return res, nil
}

// Reload replaces the whole document with new content as a single
// revision. When setPristine is true the new state becomes the save
// point.
func (e *Engine) Reload(content string, setPristine bool) (EditResult, error) {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return EditResult{}, ErrReadOnly
	}

	wasPristine := e.buf.IsPristine()
	d, inval, edits := e.buf.Reload(content, setPristine)
	e.sel = e.sel.Transform(d)
	res := EditResult{Delta: d, InvalLines: inval, Edits: edits, Rev: e.buf.Rev()}
	isPristine := e.buf.IsPristine()
	e.mu.Unlock()

	e.publish(EditTypeOther, res, wasPristine, isPristine)
	return res, nil
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the most recent undo group.
func (e *Engine) Undo() (EditResult, error) {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return EditResult{}, ErrReadOnly
	}

	wasPristine := e.buf.IsPristine()
	d, inval, edits, cursor, err := e.buf.DoUndo()
	if err != nil {
		e.mu.Unlock()
		return EditResult{}, err
	}
	if cursor != nil {
		e.sel = *cursor
	} else {
		e.sel = e.sel.Transform(d)
	}
	res := EditResult{Delta: d, InvalLines: inval, Edits: edits, Rev: e.buf.Rev()}
	isPristine := e.buf.IsPristine()
	e.mu.Unlock()

	e.publish(EditTypeUndo, res, wasPristine, isPristine)
	return res, nil
}

// Redo re-applies the most recently undone group.
func (e *Engine) Redo() (EditResult, error) {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return EditResult{}, ErrReadOnly
	}

	wasPristine := e.buf.IsPristine()
	d, inval, edits, cursor, err := e.buf.DoRedo()
	if err != nil {
		e.mu.Unlock()
		return EditResult{}, err
	}
	if cursor != nil {
		e.sel = *cursor
	} else {
		e.sel = e.sel.Transform(d)
	}
	res := EditResult{Delta: d, InvalLines: inval, Edits: edits, Rev: e.buf.Rev()}
	isPristine := e.buf.IsPristine()
	e.mu.Unlock()

	e.publish(EditTypeRedo, res, wasPristine, isPristine)
	return res, nil
}

// publish notifies bus subscribers of a committed revision. Runs with
// the lock released so handlers may read back into the engine.
func (e *Engine) publish(editType EditType, res EditResult, wasPristine, isPristine bool) {
	if e.bus == nil {
		return
	}
	ctx := context.Background()
	e.bus.Publish(ctx, event.EditApplied{
		Rev:        res.Rev,
		EditType:   editType,
		Delta:      res.Delta,
		InvalLines: res.InvalLines,
		Edits:      res.Edits,
	})
	if wasPristine != isPristine {
		e.bus.Publish(ctx, event.PristineChanged{Rev: res.Rev, Pristine: isPristine})
	}
}

// ============================================================================
// Revision and Pristine State
// ============================================================================

// Rev returns the current revision number.
func (e *Engine) Rev() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Rev()
}

// AtomicRev returns the shared atomic revision handle for background
// workers. Reading it never takes the engine lock.
func (e *Engine) AtomicRev() uint64 {
	return e.buf.AtomicRev().Load()
}

// IsPristine reports whether the current text matches the last save
// point, surviving undo and redo cycles.
func (e *Engine) IsPristine() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsPristine()
}

// SetPristine records the current revision as the save point.
func (e *Engine) SetPristine() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetPristine()
}

// ============================================================================
// Selection
// ============================================================================

// Sel returns the current selection.
func (e *Engine) Sel() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel
}

// SetSel replaces the current selection.
func (e *Engine) SetSel(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel = sel
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}
