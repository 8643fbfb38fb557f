// Package buffer implements a versioned text buffer: a rope-backed document
// store that records every edit in an append-only revision log and supports
// multi-level undo/redo without storing snapshots.
//
// The model is a single persistent "union" representation of the document:
// the visible text and the retained deletions (tombstones) together form the
// union space, and a deletes-from-union subset says which union positions
// are currently hidden. Every revision stores the subsets needed to replay
// or invert its effect in that space, so any prior visible text can be
// reconstructed by subset algebra alone.
//
// A Buffer is a single-writer structure: exactly one actor may call Edit,
// DoUndo, or DoRedo, serialized by the caller. It performs no internal
// locking; since ropes and subsets are persistent, readers can capture O(1)
// snapshots of any field without blocking the writer. A shared atomic
// revision counter, published strictly after each commit, lets background
// workers detect staleness without taking any lock.
package buffer
