package buffer

import "fmt"

// EditType classifies an edit for undo grouping. Consecutive edits whose
// types the group policy allows to continue share one undo group.
type EditType int

const (
	// EditTypeOther is any programmatic or uncategorized edit.
	EditTypeOther EditType = iota
	// EditTypeInsertChars is ordinary typing.
	EditTypeInsertChars
	// EditTypeInsertNewline is a newline insertion.
	EditTypeInsertNewline
	// EditTypeDelete is a character deletion (backspace/delete).
	EditTypeDelete
	// EditTypeDeleteSelection deletes a selected range.
	EditTypeDeleteSelection
	// EditTypeIndent shifts lines right.
	EditTypeIndent
	// EditTypeOutdent shifts lines left.
	EditTypeOutdent
	// EditTypeToggleComment toggles line comments.
	EditTypeToggleComment
	// EditTypePaste inserts clipboard content.
	EditTypePaste
	// EditTypeUndo marks an undo operation.
	EditTypeUndo
	// EditTypeRedo marks a redo operation.
	EditTypeRedo
)

var editTypeNames = map[EditType]string{
	EditTypeOther:           "Other",
	EditTypeInsertChars:     "InsertChars",
	EditTypeInsertNewline:   "InsertNewline",
	EditTypeDelete:          "Delete",
	EditTypeDeleteSelection: "DeleteSelection",
	EditTypeIndent:          "Indent",
	EditTypeOutdent:         "Outdent",
	EditTypeToggleComment:   "ToggleComment",
	EditTypePaste:           "Paste",
	EditTypeUndo:            "Undo",
	EditTypeRedo:            "Redo",
}

// String returns the edit type's name.
func (t EditType) String() string {
	if name, ok := editTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EditType(%d)", int(t))
}

// ParseEditType returns the edit type with the given name.
func ParseEditType(name string) (EditType, error) {
	for t, n := range editTypeNames {
		if n == name {
			return t, nil
		}
	}
	return EditTypeOther, fmt.Errorf("unknown edit type %q", name)
}

// GroupPolicy decides whether an edit continues the undo group started by
// the previous edit. It is a plain rule table keyed by (previous, next)
// edit-type pairs, so grouping behavior can be extended without touching
// the revision log.
type GroupPolicy map[[2]EditType]bool

// DefaultGroupPolicy merges runs of typing and runs of character deletions;
// every other transition starts a new undo group.
func DefaultGroupPolicy() GroupPolicy {
	return GroupPolicy{
		{EditTypeInsertChars, EditTypeInsertChars}: true,
		{EditTypeDelete, EditTypeDelete}:           true,
	}
}

// Continues reports whether next extends the group started by prev.
func (p GroupPolicy) Continues(prev, next EditType) bool {
	return p[[2]EditType{prev, next}]
}

// Allow returns a copy of the policy that also lets next continue prev.
func (p GroupPolicy) Allow(prev, next EditType) GroupPolicy {
	out := make(GroupPolicy, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[[2]EditType{prev, next}] = true
	return out
}
