package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/pkg/pkglog"
	"github.com/shandysiswandi/gotask/internal/pkg/pkguid"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

type Store interface {
	CreateUser(ctx context.Context, user entity.User) error
	GetUserByID(ctx context.Context, id string) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)

	// CreateTaskForUser stores task and appends its ID to the user's list in one
	// atomic write, returning the updated user.
	CreateTaskForUser(ctx context.Context, userID string, task entity.Task) (entity.User, error)
	GetTask(ctx context.Context, id string) (entity.Task, error)
	// GetTasks returns the tasks for ids in the same order; unknown ids are skipped.
	GetTasks(ctx context.Context, ids []string) ([]entity.Task, error)
	UpdateTask(ctx context.Context, id string, fn func(task *entity.Task)) (entity.Task, error)
	// DeleteTaskForUser removes taskID from the user's list and deletes the task
	// in one atomic write, stamping the user with now. It returns the updated
	// user and the deleted task.
	DeleteTaskForUser(ctx context.Context, userID, taskID string, now time.Time) (entity.User, entity.Task, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.TaskEvent) error
}

// Runner schedules f without waiting for a free slot; it reports false when
// f was not scheduled.
type Runner interface {
	TryGo(ctx context.Context, f func(ctx context.Context) error) bool
}

type Clock interface {
	Now() time.Time
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) error
}

type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
	Verify(token string) (string, error)
}

type Dependency struct {
	Store   Store
	Events  EventPublisher
	Runner  Runner
	Clock   Clock
	ID      pkguid.StringID
	EventID pkguid.NumberID
	Hasher  PasswordHasher
	Tokens  TokenIssuer
	RootCtx context.Context
}

type Usecase struct {
	store     Store
	events    EventPublisher
	runner    Runner
	clock     Clock
	id        pkguid.StringID
	eventID   pkguid.NumberID
	hasher    PasswordHasher
	tokens    TokenIssuer
	validator *validator
	rootCtx   context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		store:     dep.Store,
		events:    dep.Events,
		runner:    dep.Runner,
		clock:     clock,
		id:        dep.ID,
		eventID:   dep.EventID,
		hasher:    dep.Hasher,
		tokens:    dep.Tokens,
		validator: newValidator(),
		rootCtx:   root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// emit publishes a task event in the background, or inline when no runner
// slot is free. Publishing never waits on the consumer. Delivery is
// best-effort: a failure is logged and never fails the request that caused it.
func (u *Usecase) emit(ctx context.Context, typ entity.EventType, userID string, task entity.Task) {
	if u.events == nil {
		return
	}

	event := entity.TaskEvent{
		Type:       typ,
		UserID:     userID,
		TaskID:     task.ID,
		Task:       task,
		OccurredAt: u.clock.Now(),
	}
	if u.eventID != nil {
		event.EventID = u.eventID.Generate()
	}

	publish := func(pctx context.Context) error {
		if err := u.events.Publish(pctx, event); err != nil {
			slog.WarnContext(pctx, "failed to publish task event", "type", event.Type, "task_id", event.TaskID, "error", err)
		}
		return nil
	}

	bg := pkglog.SetCorrelationID(u.rootCtx, pkglog.GetCorrelationID(ctx))
	if userID != "" {
		bg = pkglog.SetUserID(bg, userID)
	}

	if u.runner != nil && u.runner.TryGo(bg, publish) {
		return
	}
	//nolint:errcheck // publish never returns an error
	publish(bg)
}

func mapStoreErr(err error, notFoundMsg string) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound(notFoundMsg)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	if perr, ok := pkgerror.As(err); ok {
		return perr
	}
	return pkgerror.NewServer(err)
}
