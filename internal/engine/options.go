package engine

import (
	"github.com/dquist/verso/internal/engine/buffer"
	"github.com/dquist/verso/internal/event"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine. The loaded content
// becomes the pristine state.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding sets the line ending normalization for loaded content.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
	}
}

// WithGroupPolicy replaces the undo grouping policy.
func WithGroupPolicy(p buffer.GroupPolicy) Option {
	return func(e *Engine) {
		if p != nil {
			e.groupPolicy = p
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithEventBus attaches a bus; the engine publishes EditApplied after
// every committed revision and PristineChanged when the save-point state
// flips.
func WithEventBus(bus *event.Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithSelection sets the initial selection.
func WithSelection(sel Selection) Option {
	return func(e *Engine) {
		e.sel = sel
	}
}
