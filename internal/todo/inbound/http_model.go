package inbound

import "time"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Tasks     []string  `json:"tasks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// The responses below are written without the default message/data envelope.

type TokenResponse struct {
	Token string `json:"token"`
}

func (TokenResponse) Raw() bool { return true }

type TasksResponse struct {
	Tasks []Task `json:"tasks"`
}

func (TasksResponse) Raw() bool { return true }

type UserResponse struct {
	User User `json:"user"`
}

func (UserResponse) Raw() bool { return true }

type TaskResponse struct {
	Task Task `json:"task"`
}

func (TaskResponse) Raw() bool { return true }

// TaskList is encoded as a bare JSON array.
type TaskList []Task

func (TaskList) Raw() bool { return true }
