package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	task_ids      TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	priority     INTEGER NOT NULL DEFAULT 0,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
`

const (
	userColumns = `id, email, password_hash, task_ids, created_at, updated_at`
	taskColumns = `id, title, description, priority, is_completed, created_at, updated_at`
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore persists users and tasks in PostgreSQL. Writes that touch both
// tables run in one transaction with the user row locked, so concurrent task
// additions for the same user cannot lose updates.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables if they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user entity.User) error {
	const q = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	taskIDs := user.TaskIDs
	if taskIDs == nil {
		taskIDs = []string{}
	}

	_, err := s.db.Exec(ctx, q, user.ID, user.Email, user.PasswordHash, taskIDs, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return pkgerror.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, q, id))
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRow(ctx, q, email))
}

func (s *PostgresStore) CreateTaskForUser(ctx context.Context, userID string, task entity.Task) (entity.User, error) {
	const (
		lockUser   = `SELECT id FROM users WHERE id = $1 FOR UPDATE`
		insertTask = `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
		appendTask = `UPDATE users SET task_ids = array_append(task_ids, $2), updated_at = $3
			WHERE id = $1 RETURNING ` + userColumns
	)

	var user entity.User
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, lockUser, userID).Scan(&id); err != nil {
			return notFoundOr(err, "lock user")
		}

		if _, err := tx.Exec(ctx, insertTask,
			task.ID, task.Title, task.Description, task.Priority, task.IsCompleted, task.CreatedAt, task.UpdatedAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return pkgerror.ErrDuplicate
			}
			return fmt.Errorf("insert task: %w", err)
		}

		var err error
		user, err = scanUser(tx.QueryRow(ctx, appendTask, userID, task.ID, task.CreatedAt))
		return err
	})
	if err != nil {
		return entity.User{}, err
	}

	return user, nil
}

func (s *PostgresStore) GetTask(ctx context.Context, id string) (entity.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(s.db.QueryRow(ctx, q, id))
}

func (s *PostgresStore) GetTasks(ctx context.Context, ids []string) ([]entity.Task, error) {
	const q = `
	SELECT t.id, t.title, t.description, t.priority, t.is_completed, t.created_at, t.updated_at
	FROM unnest($1::text[]) WITH ORDINALITY AS l(id, ord)
	JOIN tasks t ON t.id = l.id
	ORDER BY l.ord`

	rows, err := s.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0, len(ids))
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows tasks: %w", err)
	}

	return tasks, nil
}

func (s *PostgresStore) UpdateTask(ctx context.Context, id string, fn func(task *entity.Task)) (entity.Task, error) {
	const (
		lockTask   = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
		updateTask = `UPDATE tasks SET title = $2, description = $3, priority = $4, is_completed = $5, updated_at = $6
			WHERE id = $1 RETURNING ` + taskColumns
	)

	var task entity.Task
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		current, err := scanTask(tx.QueryRow(ctx, lockTask, id))
		if err != nil {
			return err
		}

		fn(&current)

		task, err = scanTask(tx.QueryRow(ctx, updateTask,
			id, current.Title, current.Description, current.Priority, current.IsCompleted, current.UpdatedAt,
		))
		return err
	})
	if err != nil {
		return entity.Task{}, err
	}

	return task, nil
}

func (s *PostgresStore) DeleteTaskForUser(ctx context.Context, userID, taskID string, now time.Time) (entity.User, entity.Task, error) {
	const (
		lockUser   = `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
		deleteTask = `DELETE FROM tasks WHERE id = $1 RETURNING ` + taskColumns
		removeTask = `UPDATE users SET task_ids = array_remove(task_ids, $2), updated_at = $3
			WHERE id = $1 RETURNING ` + userColumns
	)

	var (
		user    entity.User
		deleted entity.Task
	)
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		owner, err := scanUser(tx.QueryRow(ctx, lockUser, userID))
		if err != nil {
			return err
		}
		if !owner.HasTask(taskID) {
			return pkgerror.ErrNotFound
		}

		// A listed id without a row is cleaned from the list all the same.
		deleted, err = scanTask(tx.QueryRow(ctx, deleteTask, taskID))
		if err != nil && !errors.Is(err, pkgerror.ErrNotFound) {
			return err
		}

		user, err = scanUser(tx.QueryRow(ctx, removeTask, userID, taskID, now))
		return err
	})
	if err != nil {
		return entity.User{}, entity.Task{}, err
	}

	return user, deleted, nil
}

func scanUser(row pgx.Row) (entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.TaskIDs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return entity.User{}, notFoundOr(err, "scan user")
	}
	if u.TaskIDs == nil {
		u.TaskIDs = []string{}
	}
	return u, nil
}

func scanTask(row pgx.Row) (entity.Task, error) {
	var t entity.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return entity.Task{}, notFoundOr(err, "scan task")
	}
	return t, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return pkgerror.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
