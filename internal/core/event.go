package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventHistory delivers recent messages to a client right after it connects.
	EventHistory EventKind = iota
	// EventNewMessage notifies every client about an accepted message.
	EventNewMessage
	// EventError notifies a single client about a rejected command.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventHistory:
		return "history"
	case EventNewMessage:
		return "new_message"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Message  Message
	Messages []Message // For EventHistory
	Error    *CoreError
}
