package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgpostgres"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

// newPostgresStore connects to GOTASK_TEST_POSTGRES_DSN or skips the test.
func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("GOTASK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GOTASK_TEST_POSTGRES_DSN not set")
	}

	pool, err := pkgpostgres.NewPool(context.Background(), dsn, pkgpostgres.Options{})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func TestPostgresStore_TaskLifecycle(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	user := entity.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(ctx, entity.User{ID: uuid.NewString(), Email: user.Email, CreatedAt: now, UpdatedAt: now}); !errors.Is(err, pkgerror.ErrDuplicate) {
		t.Fatalf("CreateUser duplicate err = %v, want ErrDuplicate", err)
	}

	ids := []string{uuid.NewString(), uuid.NewString()}
	for i, id := range ids {
		task := entity.Task{ID: id, Title: "task", Priority: i, CreatedAt: now, UpdatedAt: now}
		if _, err := s.CreateTaskForUser(ctx, user.ID, task); err != nil {
			t.Fatalf("CreateTaskForUser: %v", err)
		}
	}

	got, err := s.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !reflect.DeepEqual(got.TaskIDs, ids) {
		t.Fatalf("TaskIDs = %v, want %v", got.TaskIDs, ids)
	}

	tasks, err := s.GetTasks(ctx, []string{ids[1], ids[0]})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != ids[1] || tasks[1].ID != ids[0] {
		t.Fatalf("GetTasks order = %+v", tasks)
	}

	updated, err := s.UpdateTask(ctx, ids[0], func(task *entity.Task) { task.IsCompleted = true })
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !updated.IsCompleted || updated.Title != "task" {
		t.Fatalf("UpdateTask = %+v", updated)
	}

	deletedAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	after, deleted, err := s.DeleteTaskForUser(ctx, user.ID, ids[0], deletedAt)
	if err != nil {
		t.Fatalf("DeleteTaskForUser: %v", err)
	}
	if !after.UpdatedAt.Equal(deletedAt) {
		t.Fatalf("UpdatedAt = %v, want %v", after.UpdatedAt, deletedAt)
	}
	if deleted.ID != ids[0] || !reflect.DeepEqual(after.TaskIDs, ids[1:]) {
		t.Fatalf("DeleteTaskForUser = %+v / %+v", after, deleted)
	}
	if _, err := s.GetTask(ctx, ids[0]); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetTask(deleted) err = %v, want ErrNotFound", err)
	}
}
