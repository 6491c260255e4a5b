package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

const msgTaskNotFound = "task not found"

// ListTasks returns the user's tasks in list order.
func (u *Usecase) ListTasks(ctx context.Context, user entity.User) ([]entity.Task, error) {
	if len(user.TaskIDs) == 0 {
		return []entity.Task{}, nil
	}

	tasks, err := u.store.GetTasks(ctx, user.TaskIDs)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if len(tasks) != len(user.TaskIDs) {
		slog.WarnContext(ctx, "user task list references missing tasks", "listed", len(user.TaskIDs), "found", len(tasks))
	}

	return tasks, nil
}

// CreateTask stores a task from the raw JSON body and appends it to the
// user's list. It returns the updated user.
func (u *Usecase) CreateTask(ctx context.Context, user entity.User, body []byte) (entity.User, error) {
	in, err := decodeTask(u.validator.create, body)
	if err != nil {
		return entity.User{}, err
	}

	now := u.clock.Now()
	task := entity.Task{
		ID:        u.id.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	toPatch(in).Apply(&task)

	updated, err := u.store.CreateTaskForUser(ctx, user.ID, task)
	if err != nil {
		return entity.User{}, mapStoreErr(err, "user not found")
	}

	u.emit(ctx, entity.EventTaskCreated, user.ID, task)

	return updated, nil
}

// UpdateTask applies a partial update from the raw JSON body. Any
// authenticated user may update a task by ID.
func (u *Usecase) UpdateTask(ctx context.Context, user entity.User, taskID string, body []byte) (entity.Task, error) {
	in, err := decodeTask(u.validator.patch, body)
	if err != nil {
		return entity.Task{}, err
	}

	return u.patchTask(ctx, user, taskID, toPatch(in), entity.EventTaskUpdated)
}

// DeleteTask removes the task from the user's list and deletes it. It returns
// the updated user.
func (u *Usecase) DeleteTask(ctx context.Context, user entity.User, taskID string) (entity.User, error) {
	if taskID == "" {
		return entity.User{}, pkgerror.NewNotFound(msgTaskNotFound)
	}

	updated, deleted, err := u.store.DeleteTaskForUser(ctx, user.ID, taskID, u.clock.Now())
	if err != nil {
		return entity.User{}, mapStoreErr(err, msgTaskNotFound)
	}

	u.emit(ctx, entity.EventTaskDeleted, user.ID, deleted)

	return updated, nil
}

// MarkDone sets the completion flag and leaves every other field unchanged.
func (u *Usecase) MarkDone(ctx context.Context, user entity.User, taskID string) (entity.Task, error) {
	done := true
	return u.patchTask(ctx, user, taskID, entity.TaskPatch{IsCompleted: &done}, entity.EventTaskCompleted)
}

// MarkUndone clears the completion flag and leaves every other field unchanged.
func (u *Usecase) MarkUndone(ctx context.Context, user entity.User, taskID string) (entity.Task, error) {
	done := false
	return u.patchTask(ctx, user, taskID, entity.TaskPatch{IsCompleted: &done}, entity.EventTaskReopened)
}

// TasksByPriority returns the user's tasks whose priority equals level, in
// list order.
func (u *Usecase) TasksByPriority(ctx context.Context, user entity.User, level int) ([]entity.Task, error) {
	tasks, err := u.ListTasks(ctx, user)
	if err != nil {
		return nil, err
	}

	matching := make([]entity.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Priority == level {
			matching = append(matching, task)
		}
	}

	return matching, nil
}

func (u *Usecase) patchTask(ctx context.Context, user entity.User, taskID string, patch entity.TaskPatch, typ entity.EventType) (entity.Task, error) {
	if taskID == "" {
		return entity.Task{}, pkgerror.NewNotFound(msgTaskNotFound)
	}

	now := u.clock.Now()
	task, err := u.store.UpdateTask(ctx, taskID, func(t *entity.Task) {
		patch.Apply(t)
		t.UpdatedAt = now
	})
	if err != nil {
		return entity.Task{}, mapStoreErr(err, msgTaskNotFound)
	}

	u.emit(ctx, typ, user.ID, task)

	return task, nil
}

func toPatch(in taskInput) entity.TaskPatch {
	return entity.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		IsCompleted: in.IsCompleted,
	}
}
