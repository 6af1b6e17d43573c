package history

import "time"

// EventKind identifies the type of journal event.
type EventKind string

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Mutation events. Each confirmed mutation produces exactly one entry; a
// rolled-back mutation produces a rollback entry instead.
const (
	EventTaskCreated   EventKind = "task_created"
	EventTaskEdited    EventKind = "task_edited"
	EventTaskCompleted EventKind = "task_completed"
	EventTaskReopened  EventKind = "task_reopened"
	EventTaskDeleted   EventKind = "task_deleted"
	EventTaskPostponed EventKind = "task_postponed"
	EventRollback      EventKind = "rollback"
)

// Event is a single journal entry.
type Event struct {
	ID        int64
	Kind      EventKind
	Timestamp time.Time
	Project   string
	TaskID    string
	TaskTitle string
	Message   string
	Detail    string // JSON-encoded mutation payload
}
