package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

// InMemoryStore keeps users and tasks in process memory. One lock guards both
// maps so the two-step task writes are atomic.
type InMemoryStore struct {
	mu     sync.RWMutex
	users  map[string]entity.User
	emails map[string]string
	tasks  map[string]entity.Task
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:  make(map[string]entity.User),
		emails: make(map[string]string),
		tasks:  make(map[string]entity.Task),
	}
}

func (s *InMemoryStore) CreateUser(ctx context.Context, user entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return pkgerror.ErrDuplicate
	}
	if _, exists := s.emails[user.Email]; exists {
		return pkgerror.ErrDuplicate
	}

	user.TaskIDs = slices.Clone(user.TaskIDs)
	s.users[user.ID] = user
	s.emails[user.Email] = user.ID

	return nil
}

func (s *InMemoryStore) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return entity.User{}, pkgerror.ErrNotFound
	}

	return cloneUser(user), nil
}

func (s *InMemoryStore) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return entity.User{}, pkgerror.ErrNotFound
	}

	return cloneUser(s.users[id]), nil
}

func (s *InMemoryStore) CreateTaskForUser(ctx context.Context, userID string, task entity.Task) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return entity.User{}, pkgerror.ErrNotFound
	}
	if _, exists := s.tasks[task.ID]; exists {
		return entity.User{}, pkgerror.ErrDuplicate
	}

	s.tasks[task.ID] = task

	user.TaskIDs = append(slices.Clone(user.TaskIDs), task.ID)
	user.UpdatedAt = task.CreatedAt
	s.users[userID] = user

	return cloneUser(user), nil
}

func (s *InMemoryStore) GetTask(ctx context.Context, id string) (entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return entity.Task{}, pkgerror.ErrNotFound
	}

	return task, nil
}

func (s *InMemoryStore) GetTasks(ctx context.Context, ids []string) ([]entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			out = append(out, task)
		}
	}

	return out, nil
}

func (s *InMemoryStore) UpdateTask(ctx context.Context, id string, fn func(task *entity.Task)) (entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return entity.Task{}, pkgerror.ErrNotFound
	}

	fn(&task)
	task.ID = id
	s.tasks[id] = task

	return task, nil
}

func (s *InMemoryStore) DeleteTaskForUser(ctx context.Context, userID, taskID string, now time.Time) (entity.User, entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok || !user.HasTask(taskID) {
		return entity.User{}, entity.Task{}, pkgerror.ErrNotFound
	}

	deleted := s.tasks[taskID]
	delete(s.tasks, taskID)

	user.TaskIDs = user.WithoutTask(taskID)
	user.UpdatedAt = now
	s.users[userID] = user

	return cloneUser(user), deleted, nil
}

func cloneUser(u entity.User) entity.User {
	u.TaskIDs = slices.Clone(u.TaskIDs)
	if u.TaskIDs == nil {
		u.TaskIDs = []string{}
	}
	return u
}
