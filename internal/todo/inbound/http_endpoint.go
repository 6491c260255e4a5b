package inbound

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotask/internal/pkg/pkguid"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

// maxBodyBytes caps task request bodies.
const maxBodyBytes = 1 << 20

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) SignIn(ctx context.Context, r *http.Request) (any, error) {
	email, password, ok := r.BasicAuth()
	if !ok {
		return nil, pkgerror.NewUnauthorized("missing basic credentials")
	}

	result, err := h.uc.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return TokenResponse{Token: result.Token}, nil
}

func (h *HTTPEndpoint) SignUp(ctx context.Context, r *http.Request) (any, error) {
	email, password, ok := r.BasicAuth()
	if !ok {
		return nil, pkgerror.NewUnauthorized("missing basic credentials")
	}

	result, err := h.uc.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return TokenResponse{Token: result.Token}, nil
}

func (h *HTTPEndpoint) AllTasks(ctx context.Context, r *http.Request) (any, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := h.uc.ListTasks(ctx, user)
	if err != nil {
		return nil, err
	}

	return TasksResponse{Tasks: toHTTPTasks(tasks)}, nil
}

func (h *HTTPEndpoint) AddTask(ctx context.Context, r *http.Request) (any, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	body, err := readBody(r)
	if err != nil {
		return nil, err
	}

	updated, err := h.uc.CreateTask(ctx, user, body)
	if err != nil {
		return nil, err
	}

	return UserResponse{User: toHTTPUser(updated)}, nil
}

func (h *HTTPEndpoint) UpdateTask(ctx context.Context, r *http.Request) (any, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	taskID, err := taskIDParam(ctx)
	if err != nil {
		return nil, err
	}

	body, err := readBody(r)
	if err != nil {
		return nil, err
	}

	task, err := h.uc.UpdateTask(ctx, user, taskID, body)
	if err != nil {
		return nil, err
	}

	return TaskResponse{Task: toHTTPTask(task)}, nil
}

func (h *HTTPEndpoint) DeleteTask(ctx context.Context, r *http.Request) (any, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	taskID, err := taskIDParam(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.uc.DeleteTask(ctx, user, taskID)
	if err != nil {
		return nil, err
	}

	return UserResponse{User: toHTTPUser(updated)}, nil
}

func (h *HTTPEndpoint) MarkDone(ctx context.Context, r *http.Request) (any, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	taskID, err := taskIDParam(ctx)
	if err != nil {
		return nil, err
	}

	task, err := h.uc.MarkDone(ctx, user, taskID)
	if err != nil {
		return nil, err
	}

	return TaskResponse{Task: toHTTPTask(task)}, nil
}

func (h *HTTPEndpoint) MarkUndone(ctx context.Context, r *http.Request) (any, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	taskID, err := taskIDParam(ctx)
	if err != nil {
		return nil, err
	}

	task, err := h.uc.MarkUndone(ctx, user, taskID)
	if err != nil {
		return nil, err
	}

	return TaskResponse{Task: toHTTPTask(task)}, nil
}

func (h *HTTPEndpoint) Priority(ctx context.Context, r *http.Request) (any, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	level, err := pkgrouter.GetParamInt(ctx, "level")
	if err != nil {
		return nil, pkgerror.NewValidation(errors.New("invalid priority level"), map[string]string{
			"level": "must be an integer",
		})
	}

	tasks, err := h.uc.TasksByPriority(ctx, user, level)
	if err != nil {
		return nil, err
	}

	return TaskList(toHTTPTasks(tasks)), nil
}

// taskIDParam reads :t_id. Ids that are not UUIDs cannot exist, so they are
// reported as not found without a storage round trip.
func taskIDParam(ctx context.Context) (string, error) {
	id := pkgrouter.GetParam(ctx, "t_id")
	if !pkguid.Valid(id) {
		return "", pkgerror.NewNotFound("task not found")
	}
	return id, nil
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}
	if len(body) > maxBodyBytes {
		return nil, pkgerror.NewInvalidInput(errors.New("request body too large"))
	}

	return body, nil
}

func toHTTPTask(t entity.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toHTTPTasks(tasks []entity.Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toHTTPTask(t))
	}
	return out
}

func toHTTPUser(u entity.User) User {
	tasks := u.TaskIDs
	if tasks == nil {
		tasks = []string{}
	}
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Tasks:     tasks,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
