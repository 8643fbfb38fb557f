package script

import "errors"

// Errors returned by the script runtime.
var (
	// ErrRuntimeClosed indicates the runtime has been closed.
	ErrRuntimeClosed = errors.New("script runtime closed")

	// ErrNoEngine indicates the runtime has no document attached.
	ErrNoEngine = errors.New("no document attached to script runtime")
)
