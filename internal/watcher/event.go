package watcher

import "time"

// EventType classifies what happened to a source file.
type EventType int

const (
	// EventAdded is emitted when a new source file appears and settles.
	EventAdded EventType = iota
	// EventModified is emitted when a known source file changes and settles.
	EventModified
	// EventRemoved is emitted when a source file is deleted.
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes a settled change to a file under the sources
// directory, such as an awards or list CSV being edited.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}
