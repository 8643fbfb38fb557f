// Package rope provides an immutable, structurally-shared text rope.
//
// A Rope is a balanced binary concatenation tree over string leaves with
// cached byte-length and newline summaries, giving O(log n) Insert, Delete,
// Split, Concat, and line/offset lookups. Every operation returns a new Rope
// value; existing values are never modified, so a Rope can be captured as an
// O(1) snapshot and read from any goroutine without locking.
//
// The rest of the engine treats Rope as an opaque text primitive: it only
// relies on length, slicing, concatenation, and line-offset lookups.
package rope
