package event

import (
	"github.com/dquist/verso/internal/engine/buffer"
	"github.com/dquist/verso/internal/engine/delta"
)

// EditApplied is published after every committed revision, including
// those produced by undo and redo.
type EditApplied struct {
	// Rev is the revision number the edit committed.
	Rev uint64

	// EditType classifies the operation.
	EditType buffer.EditType

	// Delta describes the change against the pre-edit text.
	Delta delta.Delta

	// InvalLines is the invalidated line range for renderers.
	InvalLines buffer.InvalLines

	// Edits are byte/point records for incremental parsers.
	Edits []buffer.TreeEdit
}

// EventTopic implements TopicProvider.
func (EditApplied) EventTopic() Topic { return TopicEditApplied }

// PristineChanged is published when the document crosses its save point
// in either direction.
type PristineChanged struct {
	Rev      uint64
	Pristine bool
}

// EventTopic implements TopicProvider.
func (PristineChanged) EventTopic() Topic { return TopicPristineChanged }

// ConfigChanged is published when a watched configuration file is
// reloaded.
type ConfigChanged struct {
	Path string
}

// EventTopic implements TopicProvider.
func (ConfigChanged) EventTopic() Topic { return TopicConfigChanged }
