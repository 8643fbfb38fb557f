package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dquist/verso/internal/engine"
)

// registerBufferModule installs the `buf` table exposing document
// operations to Lua. Offsets are zero-based byte offsets, matching the
// engine API; ranges are half-open [start, end).
func registerBufferModule(L *lua.LState, eng *engine.Engine) {
	m := &bufferModule{eng: eng}

	mod := L.NewTable()
	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "text_range", L.NewFunction(m.textRange))
	L.SetField(mod, "len", L.NewFunction(m.bufLen))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "insert", L.NewFunction(m.insert))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "replace", L.NewFunction(m.replace))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "rev", L.NewFunction(m.rev))
	L.SetField(mod, "pristine", L.NewFunction(m.pristine))
	L.SetField(mod, "line_of_offset", L.NewFunction(m.lineOfOffset))
	L.SetField(mod, "offset_of_line", L.NewFunction(m.offsetOfLine))

	L.SetGlobal("buf", mod)
}

type bufferModule struct {
	eng *engine.Engine
}

// text() -> string
func (m *bufferModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.eng.Text()))
	return 1
}

// text_range(start, end) -> string
func (m *bufferModule) textRange(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)

	if err := m.checkRange(start, end); err != nil {
		L.RaiseError("text_range: %v", err)
		return 0
	}

	L.Push(lua.LString(m.eng.Slice(start, end)))
	return 1
}

// len() -> number
func (m *bufferModule) bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Len()))
	return 1
}

// line_count() -> number
func (m *bufferModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.LineCount()))
	return 1
}

// insert(offset, text) -> end_offset
func (m *bufferModule) insert(L *lua.LState) int {
	offset := L.CheckInt(1)
	text := L.CheckString(2)

	if offset < 0 || offset > m.eng.Len() {
		L.ArgError(1, "offset out of range")
		return 0
	}

	end, _, err := m.eng.Insert(offset, text)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}

	L.Push(lua.LNumber(end))
	return 1
}

// delete(start, end)
func (m *bufferModule) delete(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)

	if err := m.checkRange(start, end); err != nil {
		L.RaiseError("delete: %v", err)
		return 0
	}

	if _, err := m.eng.Delete(start, end); err != nil {
		L.RaiseError("delete: %v", err)
		return 0
	}
	return 0
}

// replace(start, end, text) -> end_offset
func (m *bufferModule) replace(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)
	text := L.CheckString(3)

	if err := m.checkRange(start, end); err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}

	if _, err := m.eng.Replace(start, end, text); err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}

	L.Push(lua.LNumber(start + len(text)))
	return 1
}

// undo() -> bool
func (m *bufferModule) undo(L *lua.LState) int {
	_, err := m.eng.Undo()
	if err != nil && !errors.Is(err, engine.ErrNothingToUndo) {
		L.RaiseError("undo: %v", err)
		return 0
	}
	L.Push(lua.LBool(err == nil))
	return 1
}

// redo() -> bool
func (m *bufferModule) redo(L *lua.LState) int {
	_, err := m.eng.Redo()
	if err != nil && !errors.Is(err, engine.ErrNothingToRedo) {
		L.RaiseError("redo: %v", err)
		return 0
	}
	L.Push(lua.LBool(err == nil))
	return 1
}

// rev() -> number
func (m *bufferModule) rev(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Rev()))
	return 1
}

// pristine() -> bool
func (m *bufferModule) pristine(L *lua.LState) int {
	L.Push(lua.LBool(m.eng.IsPristine()))
	return 1
}

// line_of_offset(offset) -> line
func (m *bufferModule) lineOfOffset(L *lua.LState) int {
	offset := L.CheckInt(1)
	if offset < 0 || offset > m.eng.Len() {
		L.ArgError(1, "offset out of range")
		return 0
	}
	L.Push(lua.LNumber(m.eng.LineOfOffset(offset)))
	return 1
}

// offset_of_line(line) -> offset
func (m *bufferModule) offsetOfLine(L *lua.LState) int {
	line := L.CheckInt(1)
	if line < 0 {
		L.ArgError(1, "line must be non-negative")
		return 0
	}
	L.Push(lua.LNumber(m.eng.OffsetOfLine(line)))
	return 1
}

func (m *bufferModule) checkRange(start, end int) error {
	if start < 0 || end < start || end > m.eng.Len() {
		return errors.New("range out of bounds")
	}
	return nil
}
