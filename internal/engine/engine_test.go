package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/dquist/verso/internal/engine/selection"
	"github.com/dquist/verso/internal/event"
)

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Len() != 0 {
		t.Errorf("expected empty engine, got len %d", e.Len())
	}
	if e.Text() != "" {
		t.Errorf("expected empty text, got %q", e.Text())
	}
	if !e.IsPristine() {
		t.Error("expected new engine to be pristine")
	}
}

func TestNewWithContent(t *testing.T) {
	content := "Hello, World!"
	e := New(WithContent(content))

	if e.Text() != content {
		t.Errorf("expected %q, got %q", content, e.Text())
	}
	if e.Len() != len(content) {
		t.Errorf("expected len %d, got %d", len(content), e.Len())
	}
	if !e.IsPristine() {
		t.Error("expected loaded engine to be pristine")
	}
}

func TestNewFromReader(t *testing.T) {
	content := "Hello, World!"
	r := strings.NewReader(content)

	e, err := NewFromReader(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Text() != content {
		t.Errorf("expected %q, got %q", content, e.Text())
	}
}

func TestInsert(t *testing.T) {
	e := New()

	end, _, err := e.Insert(0, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 5 {
		t.Errorf("expected end position 5, got %d", end)
	}
	if e.Text() != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", e.Text())
	}

	_, _, err = e.Insert(5, ", World!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello, World!" {
		t.Errorf("expected %q, got %q", "Hello, World!", e.Text())
	}
}

func TestDelete(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	_, err := e.Delete(5, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "HelloWorld!" {
		t.Errorf("expected %q, got %q", "HelloWorld!", e.Text())
	}
}

func TestReplace(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	_, err := e.Replace(7, 12, "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello, Go!" {
		t.Errorf("expected %q, got %q", "Hello, Go!", e.Text())
	}
}

func TestMultiRegionEdit(t *testing.T) {
	e := New(WithContent("foo bar foo"))

	sel := selection.Caret(0).Add(selection.NewCaret(8))
	_, err := e.Edit([]EditOp{{Selection: sel, Text: "X"}}, EditTypeInsertChars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Xfoo bar Xfoo" {
		t.Errorf("expected %q, got %q", "Xfoo bar Xfoo", e.Text())
	}
}

func TestReload(t *testing.T) {
	e := New(WithContent("old content"))
	e.SetPristine()

	res, err := e.Reload("new content", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "new content" {
		t.Errorf("expected %q, got %q", "new content", e.Text())
	}
	if !e.IsPristine() {
		t.Error("expected reload with setPristine to be pristine")
	}
	if res.Rev == 0 {
		t.Error("expected reload to commit a revision")
	}
}

// ============================================================================
// Edit Results
// ============================================================================

func TestEditResultInvalLines(t *testing.T) {
	e := New(WithContent("one\ntwo\nthree"))

	_, res, err := e.Insert(4, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InvalLines.StartLine != 1 {
		t.Errorf("expected start line 1, got %d", res.InvalLines.StartLine)
	}
	if res.InvalLines.InvalCount != 1 {
		t.Errorf("expected inval count 1, got %d", res.InvalLines.InvalCount)
	}
	if res.InvalLines.NewCount != 1 {
		t.Errorf("expected new count 1, got %d", res.InvalLines.NewCount)
	}
}

func TestEditResultNewlineCounts(t *testing.T) {
	e := New(WithContent("one\ntwo"))

	_, res, err := e.Insert(3, "\ninserted")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InvalLines.StartLine != 0 {
		t.Errorf("expected start line 0, got %d", res.InvalLines.StartLine)
	}
	if res.InvalLines.InvalCount != 1 {
		t.Errorf("expected inval count 1, got %d", res.InvalLines.InvalCount)
	}
	if res.InvalLines.NewCount != 2 {
		t.Errorf("expected new count 2, got %d", res.InvalLines.NewCount)
	}
}

func TestEditResultTreeEdits(t *testing.T) {
	e := New(WithContent("hello"))

	_, res, err := e.Insert(5, " world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Edits) != 1 {
		t.Fatalf("expected 1 tree edit, got %d", len(res.Edits))
	}
	edit := res.Edits[0]
	if edit.StartByte != 5 || edit.OldEndByte != 5 || edit.NewEndByte != 11 {
		t.Errorf("unexpected byte range: %+v", edit)
	}
	if edit.NewEndPoint.Line != 0 || edit.NewEndPoint.Column != 11 {
		t.Errorf("unexpected new end point: %+v", edit.NewEndPoint)
	}
}

// ============================================================================
// Undo/Redo
// ============================================================================

func TestUndoRedo(t *testing.T) {
	e := New(WithContent("Hello"))

	if _, err := e.Replace(0, 5, "Goodbye"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Goodbye" {
		t.Errorf("expected %q, got %q", "Goodbye", e.Text())
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello" {
		t.Errorf("expected %q after undo, got %q", "Hello", e.Text())
	}

	if _, err := e.Redo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Goodbye" {
		t.Errorf("expected %q after redo, got %q", "Goodbye", e.Text())
	}
}

func TestUndoEmpty(t *testing.T) {
	e := New()
	if _, err := e.Undo(); err != ErrNothingToUndo {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestRedoEmpty(t *testing.T) {
	e := New(WithContent("x"))
	if _, err := e.Redo(); err != ErrNothingToRedo {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndoGrouping(t *testing.T) {
	e := New()

	// Consecutive typing coalesces into one undo group.
	for i, s := range []string{"H", "e", "l", "l", "o"} {
		if _, _, err := e.Insert(i, s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if e.Text() != "Hello" {
		t.Fatalf("expected %q, got %q", "Hello", e.Text())
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "" {
		t.Errorf("expected one undo to remove all typing, got %q", e.Text())
	}
}

func TestUndoGroupBreak(t *testing.T) {
	e := New()

	if _, _, err := e.Insert(0, "Hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Replace is an Other edit and starts a new group.
	if _, err := e.Replace(5, 5, " World"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello" {
		t.Errorf("expected %q after first undo, got %q", "Hello", e.Text())
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "" {
		t.Errorf("expected empty text after second undo, got %q", e.Text())
	}
}

func TestLastEditType(t *testing.T) {
	e := New()

	if _, _, err := e.Insert(0, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.LastEditType() != EditTypeInsertChars {
		t.Errorf("expected InsertChars, got %v", e.LastEditType())
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.LastEditType() != EditTypeUndo {
		t.Errorf("expected Undo, got %v", e.LastEditType())
	}
}

// ============================================================================
// Revisions and Pristine State
// ============================================================================

func TestRevIncreases(t *testing.T) {
	e := New()
	r0 := e.Rev()
	if _, _, err := e.Insert(0, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r1 := e.Rev()
	if r1 <= r0 {
		t.Errorf("expected revision to increase: %d -> %d", r0, r1)
	}
	if e.AtomicRev() != r1 {
		t.Errorf("expected atomic rev %d, got %d", r1, e.AtomicRev())
	}
}

func TestUndoCommitsRevision(t *testing.T) {
	e := New(WithContent("abc"))
	if _, err := e.Delete(0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := e.Rev()
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Rev() <= r {
		t.Errorf("expected undo to commit a new revision, got %d after %d", e.Rev(), r)
	}
}

func TestPristineAcrossUndo(t *testing.T) {
	e := New(WithContent("saved"))

	if !e.IsPristine() {
		t.Fatal("expected pristine after load")
	}
	if _, _, err := e.Insert(5, "!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.IsPristine() {
		t.Error("expected dirty after edit")
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsPristine() {
		t.Error("expected pristine again after undo")
	}
	if _, err := e.Redo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.IsPristine() {
		t.Error("expected dirty again after redo")
	}
}

func TestSetPristineAfterEdit(t *testing.T) {
	e := New(WithContent("a"))
	if _, _, err := e.Insert(1, "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.SetPristine()
	if !e.IsPristine() {
		t.Error("expected pristine after SetPristine")
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.IsPristine() {
		t.Error("expected dirty after undoing past save point")
	}
	if _, err := e.Redo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsPristine() {
		t.Error("expected pristine after redoing to save point")
	}
}

// ============================================================================
// Selection
// ============================================================================

func TestSelectionFollowsEdit(t *testing.T) {
	e := New(WithContent("hello"))
	e.SetSel(selection.Caret(5))

	if _, _, err := e.Insert(0, "say "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regions := e.Sel().Regions()
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].Head != 9 {
		t.Errorf("expected caret at 9, got %d", regions[0].Head)
	}
}

func TestUndoRestoresSelection(t *testing.T) {
	e := New(WithContent("hello"))
	e.SetSel(selection.Caret(2))

	if _, err := e.Replace(0, 5, "goodbye"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regions := e.Sel().Regions()
	if len(regions) != 1 || regions[0].Head != 2 {
		t.Errorf("expected caret restored to 2, got %+v", regions)
	}
}

// ============================================================================
// Read-Only Mode
// ============================================================================

func TestReadOnly(t *testing.T) {
	e := New(WithContent("locked"), WithReadOnly())

	if !e.IsReadOnly() {
		t.Error("expected read-only engine")
	}
	if _, _, err := e.Insert(0, "x"); err != ErrReadOnly {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if _, err := e.Delete(0, 1); err != ErrReadOnly {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if _, err := e.Undo(); err != ErrReadOnly {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

// ============================================================================
// Position Conversion
// ============================================================================

func TestPositionConversion(t *testing.T) {
	e := New(WithContent("line 1\nline 2"))

	p := e.OffsetToPoint(7)
	if p.Line != 1 || p.Column != 0 {
		t.Errorf("expected {1 0}, got %+v", p)
	}
	if got := e.OffsetOfLine(1); got != 7 {
		t.Errorf("expected offset 7, got %d", got)
	}
	if got := e.LineOfOffset(10); got != 1 {
		t.Errorf("expected line 1, got %d", got)
	}
	if got := e.LineCount(); got != 2 {
		t.Errorf("expected 2 lines, got %d", got)
	}
}

// ============================================================================
// Event Publication
// ============================================================================

func TestEditPublishesEvent(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	var applied []event.EditApplied
	var mu sync.Mutex
	bus.SubscribeFunc(event.TopicEditApplied, func(ctx context.Context, ev any) error {
		mu.Lock()
		applied = append(applied, ev.(event.EditApplied))
		mu.Unlock()
		return nil
	})

	e := New(WithEventBus(bus))
	if _, _, err := e.Insert(0, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 2 {
		t.Fatalf("expected 2 events, got %d", len(applied))
	}
	if applied[0].EditType != EditTypeInsertChars {
		t.Errorf("expected InsertChars event, got %v", applied[0].EditType)
	}
	if applied[1].EditType != EditTypeUndo {
		t.Errorf("expected Undo event, got %v", applied[1].EditType)
	}
	if applied[1].Rev <= applied[0].Rev {
		t.Errorf("expected increasing revisions, got %d then %d", applied[0].Rev, applied[1].Rev)
	}
}

func TestPristineChangePublished(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	var changes []event.PristineChanged
	var mu sync.Mutex
	bus.SubscribeFunc(event.TopicPristineChanged, func(ctx context.Context, ev any) error {
		mu.Lock()
		changes = append(changes, ev.(event.PristineChanged))
		mu.Unlock()
		return nil
	})

	e := New(WithContent("saved"), WithEventBus(bus))
	if _, _, err := e.Insert(5, "!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 2 {
		t.Fatalf("expected 2 pristine changes, got %d", len(changes))
	}
	if changes[0].Pristine || !changes[1].Pristine {
		t.Errorf("expected dirty then pristine, got %+v", changes)
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestConcurrentReads(t *testing.T) {
	e := New(WithContent(strings.Repeat("concurrent read test\n", 100)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = e.Text()
				_ = e.Len()
				_ = e.LineCount()
				_ = e.Rev()
			}
		}()
	}
	wg.Wait()
}

func TestConcurrentReadWrite(t *testing.T) {
	e := New()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, _, err := e.Insert(0, "x"); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = e.Len()
			_ = e.AtomicRev()
		}
	}()
	wg.Wait()

	if e.Len() != 100 {
		t.Errorf("expected 100 bytes, got %d", e.Len())
	}
}
