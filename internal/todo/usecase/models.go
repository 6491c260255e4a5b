package usecase

import "time"

type TokenResult struct {
	Token     string
	ExpiresAt time.Time
}

// taskInput mirrors the accepted JSON task fields; pointers tell "absent" from
// zero values for partial updates.
type taskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
	IsCompleted *bool   `json:"isCompleted"`
}
