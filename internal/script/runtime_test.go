package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dquist/verso/internal/engine"
)

func newRuntime(t *testing.T, content string, opts ...RuntimeOption) (*Runtime, *engine.Engine) {
	t.Helper()
	eng := engine.New(engine.WithContent(content))
	r, err := NewRuntime(eng, opts...)
	if err != nil {
		t.Fatalf("creating runtime: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, eng
}

func TestNewRuntimeNilEngine(t *testing.T) {
	if _, err := NewRuntime(nil); !errors.Is(err, ErrNoEngine) {
		t.Errorf("expected ErrNoEngine, got %v", err)
	}
}

func TestRunStringInsert(t *testing.T) {
	r, eng := newRuntime(t, "world")

	if err := r.RunString(`buf.insert(0, "hello ")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.Text(); got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
}

func TestInsertReturnsEndOffset(t *testing.T) {
	r, _ := newRuntime(t, "")

	err := r.RunString(`
		local e = buf.insert(0, "abc")
		assert(e == 3, "expected end offset 3, got " .. tostring(e))
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteAndReplace(t *testing.T) {
	r, eng := newRuntime(t, "hello cruel world")

	if err := r.RunString(`buf.delete(5, 11)`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.Text(); got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}

	if err := r.RunString(`buf.replace(0, 5, "goodbye")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.Text(); got != "goodbye world" {
		t.Errorf("expected %q, got %q", "goodbye world", got)
	}
}

func TestReadAccessors(t *testing.T) {
	r, _ := newRuntime(t, "one\ntwo\nthree")

	err := r.RunString(`
		assert(buf.len() == 13)
		assert(buf.line_count() == 3)
		assert(buf.text_range(4, 7) == "two")
		assert(buf.line_of_offset(5) == 1)
		assert(buf.offset_of_line(2) == 8)
		assert(buf.pristine() == true)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUndoRedoFromLua(t *testing.T) {
	r, eng := newRuntime(t, "")

	err := r.RunString(`
		buf.insert(0, "hello")
		assert(buf.undo() == true)
		assert(buf.text() == "")
		assert(buf.redo() == true)
		assert(buf.text() == "hello")
		buf.undo()
		assert(buf.undo() == false)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eng.IsEmpty() {
		t.Errorf("expected empty document, got %q", eng.Text())
	}
}

func TestRevVisibleToLua(t *testing.T) {
	r, eng := newRuntime(t, "")

	err := r.RunString(`
		local before = buf.rev()
		buf.insert(0, "x")
		assert(buf.rev() > before, "rev should advance after an edit")
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.Rev() == 0 {
		t.Error("expected non-zero revision after edit")
	}
}

func TestRangeValidation(t *testing.T) {
	r, _ := newRuntime(t, "abc")

	if err := r.RunString(`buf.delete(1, 99)`); err == nil {
		t.Error("expected error for out-of-range delete")
	}
	if err := r.RunString(`buf.insert(-1, "x")`); err == nil {
		t.Error("expected error for negative offset")
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.lua")
	if err := os.WriteFile(path, []byte(`buf.insert(0, "from file")`), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}

	r, eng := newRuntime(t, "")
	if err := r.RunFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eng.Text(); got != "from file" {
		t.Errorf("expected %q, got %q", "from file", got)
	}
}

func TestTimeout(t *testing.T) {
	r, _ := newRuntime(t, "", WithTimeout(50*time.Millisecond))

	err := r.RunString(`while true do end`)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestUnsafeLibrariesUnavailable(t *testing.T) {
	r, _ := newRuntime(t, "")

	err := r.RunString(`
		assert(io == nil, "io should not be available")
		assert(os == nil, "os should not be available")
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCall(t *testing.T) {
	r, eng := newRuntime(t, "")

	if err := r.RunString(`
		function greet(name)
			buf.insert(0, "hi " .. name)
			return buf.len()
		end
	`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := r.Call("greet", lua.LString("ana"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if n, ok := results[0].(lua.LNumber); !ok || int(n) != 6 {
		t.Errorf("expected 6, got %v", results[0])
	}
	if got := eng.Text(); got != "hi ana" {
		t.Errorf("expected %q, got %q", "hi ana", got)
	}
}

func TestCallMissingFunction(t *testing.T) {
	r, _ := newRuntime(t, "")

	if _, err := r.Call("nope"); err == nil {
		t.Error("expected error for missing function")
	}
}

func TestScriptErrorSurfaces(t *testing.T) {
	r, _ := newRuntime(t, "")

	err := r.RunString(`error("boom")`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected script error to surface, got %v", err)
	}
}

func TestClosedRuntime(t *testing.T) {
	eng := engine.New()
	r, err := NewRuntime(eng)
	if err != nil {
		t.Fatalf("creating runtime: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := r.RunString(`buf.len()`); !errors.Is(err, ErrRuntimeClosed) {
		t.Errorf("expected ErrRuntimeClosed, got %v", err)
	}
	if err := r.Close(); !errors.Is(err, ErrRuntimeClosed) {
		t.Errorf("expected ErrRuntimeClosed on double close, got %v", err)
	}
}
