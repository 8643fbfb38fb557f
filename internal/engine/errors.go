package engine

import (
	"errors"

	"github.com/dquist/verso/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrNothingToUndo indicates no undo group is available.
	ErrNothingToUndo = buffer.ErrNothingToUndo

	// ErrNothingToRedo indicates no undone group is available.
	ErrNothingToRedo = buffer.ErrNothingToRedo

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
