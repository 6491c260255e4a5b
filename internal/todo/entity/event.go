package entity

import "time"

type EventType string

const (
	EventTaskCreated   EventType = "TASK_CREATED"
	EventTaskUpdated   EventType = "TASK_UPDATED"
	EventTaskCompleted EventType = "TASK_COMPLETED"
	EventTaskReopened  EventType = "TASK_REOPENED"
	EventTaskDeleted   EventType = "TASK_DELETED"
)

// TaskEvent describes one successful task mutation. Task is the state after
// the change; for deletions it is the last known state.
type TaskEvent struct {
	EventID    int64
	Type       EventType
	UserID     string
	TaskID     string
	Task       Task
	OccurredAt time.Time
}
