package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dquist/verso/internal/engine"
)

// DefaultTimeout bounds a single script run when no explicit timeout is
// configured.
const DefaultTimeout = 10 * time.Second

// Runtime executes Lua scripts against a document engine. The Lua state
// is not goroutine-safe; the mutex serializes all script execution.
//
// Scripts see a `buf` global table with document operations. Only safe
// standard libraries are opened: io, os, debug, and package stay out.
type Runtime struct {
	eng     *engine.Engine
	timeout time.Duration

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithTimeout bounds each script run. Zero disables the limit.
func WithTimeout(d time.Duration) RuntimeOption {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// NewRuntime creates a runtime bound to eng.
func NewRuntime(eng *engine.Engine, opts ...RuntimeOption) (*Runtime, error) {
	if eng == nil {
		return nil, ErrNoEngine
	}

	r := &Runtime{
		eng:     eng,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	r.L = L

	registerBufferModule(L, eng)
	return r, nil
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// RunString executes Lua source code. Execution is bounded by the
// configured timeout.
func (r *Runtime) RunString(code string) error {
	return r.run(func() error { return r.L.DoString(code) })
}

// RunFile executes a Lua script file.
func (r *Runtime) RunFile(path string) error {
	return r.run(func() error { return r.L.DoFile(path) })
}

func (r *Runtime) run(do func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRuntimeClosed
	}

	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.L.SetContext(ctx)
		defer r.L.RemoveContext()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return do()
}

// Call invokes a global Lua function previously defined by a script.
func (r *Runtime) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRuntimeClosed
	}

	fnVal := r.L.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
	}

	top := r.L.GetTop()
	r.L.Push(fnVal)
	for _, arg := range args {
		r.L.Push(arg)
	}
	if err := r.L.PCall(len(args), lua.MultRet, nil); err != nil {
		return nil, err
	}

	nRet := r.L.GetTop() - top
	if nRet <= 0 {
		return []lua.LValue{}, nil
	}
	results := make([]lua.LValue, nRet)
	for i := range results {
		results[i] = r.L.Get(top + i + 1)
	}
	r.L.Pop(nRet)
	return results, nil
}

// Close releases the Lua state. Further runs return ErrRuntimeClosed.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRuntimeClosed
	}
	r.closed = true
	r.L.Close()
	return nil
}
