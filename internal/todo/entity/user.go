package entity

import (
	"slices"
	"time"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	TaskIDs      []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasTask reports whether taskID is in the user's list.
func (u User) HasTask(taskID string) bool {
	return slices.Contains(u.TaskIDs, taskID)
}

// WithoutTask returns a copy of the list with every occurrence of taskID removed.
func (u User) WithoutTask(taskID string) []string {
	out := make([]string, 0, len(u.TaskIDs))
	for _, id := range u.TaskIDs {
		if id != taskID {
			out = append(out, id)
		}
	}
	return out
}
