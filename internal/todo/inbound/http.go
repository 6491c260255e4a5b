package inbound

import (
	"context"

	"github.com/shandysiswandi/gotask/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
	"github.com/shandysiswandi/gotask/internal/todo/usecase"
)

type uc interface {
	SignUp(ctx context.Context, email, password string) (usecase.TokenResult, error)
	SignIn(ctx context.Context, email, password string) (usecase.TokenResult, error)
	Authenticate(ctx context.Context, token string) (entity.User, error)

	ListTasks(ctx context.Context, user entity.User) ([]entity.Task, error)
	CreateTask(ctx context.Context, user entity.User, body []byte) (entity.User, error)
	UpdateTask(ctx context.Context, user entity.User, taskID string, body []byte) (entity.Task, error)
	DeleteTask(ctx context.Context, user entity.User, taskID string) (entity.User, error)
	MarkDone(ctx context.Context, user entity.User, taskID string) (entity.Task, error)
	MarkUndone(ctx context.Context, user entity.User, taskID string) (entity.Task, error)
	TasksByPriority(ctx context.Context, user entity.User, level int) ([]entity.Task, error)
}

// RegisterHTTPEndpoint mounts the auth and task routes. limiter may be nil.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, limiter *pkgrouter.RateLimiter) {
	end := &HTTPEndpoint{uc: uc}

	var public []pkgrouter.Middleware
	if limiter != nil {
		public = append(public, limiter.Middleware())
	}

	r.POST("/signin", end.SignIn, public...)
	r.POST("/signup", end.SignUp, public...)

	auth := middlewareBearer(uc)

	r.GET("/all-tasks", end.AllTasks, auth)
	r.POST("/add-task", end.AddTask, auth)
	r.PATCH("/update-task/:t_id", end.UpdateTask, auth)
	r.DELETE("/delete-task/:t_id", end.DeleteTask, auth)
	r.PATCH("/mark-done/:t_id", end.MarkDone, auth)
	r.PATCH("/mark-undone/:t_id", end.MarkUndone, auth)
	r.GET("/priority/:level", end.Priority, auth)
}
