// Package subset implements sparse difference sets over a "union" index
// space: the conceptual concatenation of a document's visible text and its
// retained deletions (tombstones).
//
// A Subset marks a multiset of positions in [0, Len()) using run-length
// segments. The algebra it exposes (Union, Subtract, Bitxor, Complement, and
// the Transform* history-rebasing operations) is pure: every operation
// returns a new Subset and never mutates its receiver, so Subsets can be
// stored in an append-only revision log and shared freely.
//
// The transform operations change the coordinate space a Subset is expressed
// in. TransformExpand maps a Subset through a set of insertions into its
// space (growing coordinates), TransformShrink maps through a set of
// deletions (shrinking coordinates), and TransformUnion expands while also
// including the inserted positions. Expanding and shrinking against the same
// base subset are mutual inverses.
package subset
