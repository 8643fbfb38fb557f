// Package engine provides the core versioned text engine for Verso.
//
// The engine package serves as the main facade, combining the
// revision-log buffer, selections, and undo/redo into a unified,
// thread-safe API suitable for building editor frontends and language
// tooling.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: immutable balanced rope for text storage (O(log n) operations)
//   - subset: run-length subsets of a sequence with an interval algebra
//   - delta: changes between sequences, with factoring and rebasing
//   - selection: multi-region selections used to address edits
//   - buffer: revision-log buffer with tombstones and group-based undo
//
// Every committed edit becomes a numbered revision. Deleted text is
// never discarded; it moves to a tombstone rope and can be restored
// exactly by undo. Undo operates on groups of revisions, with
// consecutive edits of compatible types coalescing into one group.
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write
// mutex to allow concurrent reads while serializing writes. The current
// revision number is additionally published through an atomic counter
// that background workers can poll without taking the lock.
//
// # Basic Usage
//
// Create an engine and perform basic edits:
//
//	// Create a new engine
//	e := engine.New()
//
//	// Insert text
//	e.Insert(0, "Hello, World!")
//
//	// Read content
//	text := e.Text() // "Hello, World!"
//
//	// Replace text
//	e.Replace(7, 12, "Go") // "Hello, Go!"
//
//	// Undo the replacement
//	e.Undo() // "Hello, World!"
//
// # Loading Files
//
// Create an engine from existing content:
//
//	// From a string
//	e := engine.New(engine.WithContent("initial content"))
//
//	// From a reader (file, network, etc.)
//	f, _ := os.Open("file.txt")
//	defer f.Close()
//	e, _ := engine.NewFromReader(f)
//
// # Multi-Region Edits
//
// An edit may address several regions at once; all regions commit as a
// single revision and undo as a unit:
//
//	e := engine.New(engine.WithContent("foo bar foo"))
//
//	sel := selection.Caret(0).Add(selection.NewCaret(8))
//	e.Edit([]engine.EditOp{{Selection: sel, Text: "X"}}, engine.EditTypeInsertChars)
//
//	// Result: "Xfoo bar Xfoo"
//
// # Undo/Redo
//
// Undo operates on groups. Consecutive typing coalesces:
//
//	e := engine.New()
//	e.Insert(0, "Hello")
//	e.Insert(5, " World") // same group as "Hello"
//
//	e.Undo() // empty again
//	e.Redo() // "Hello World"
//
// Grouping is driven by edit types: passing EditTypeInsertChars for each
// keystroke joins them into one group, while a Delete after typing, or
// any Other edit, starts a new group.
//
// # Pristine Tracking
//
// The engine knows whether the current text matches the last save
// point, even across undo cycles:
//
//	e := engine.New(engine.WithContent("saved"))
//	e.IsPristine() // true
//	e.Insert(5, "!")
//	e.IsPristine() // false
//	e.Undo()
//	e.IsPristine() // true again
//
// # Edit Results
//
// Every mutating operation reports what changed: the applied delta, the
// invalidated line range for renderers, and byte/point edit records for
// incremental parsers:
//
//	res, _ := e.Insert(0, "package main\n")
//	res.InvalLines // lines to re-render
//	res.Edits      // feed to a syntax tree
//
// # Read-Only Mode
//
// Create a read-only engine that rejects write operations:
//
//	e := engine.New(
//	    engine.WithContent("read-only content"),
//	    engine.WithReadOnly(),
//	)
//
//	_, _, err := e.Insert(0, "text")
//	// err == engine.ErrReadOnly
package engine
