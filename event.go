package readlater

import "context"

// Event names.
const (
	EventEntrySaved   = "entry.saved"
	EventEntryDeleted = "entry.deleted"
)

// Event notifies listeners about a change to an entry.
type Event struct {
	Name  string
	Entry *Entry
}

// EventDispatcher delivers events. Dispatch is fire-and-forget.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event Event)
}
