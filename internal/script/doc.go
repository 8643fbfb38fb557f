// Package script embeds a Lua runtime for automating document edits.
//
// Scripts run in a sandboxed gopher-lua state: only the base, table,
// string, and math libraries are opened, and each run is bounded by a
// configurable timeout. The document is exposed as a global `buf` table:
//
//	buf.insert(0, "hello")
//	buf.replace(0, 5, "goodbye")
//	print(buf.text())
//	buf.undo()
//
// All offsets are zero-based byte offsets and ranges are half-open,
// matching the engine API.
package script
