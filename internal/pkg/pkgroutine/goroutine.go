package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic wraps a value recovered from a panicking task.
var ErrPanic = errors.New("pkgroutine: task panicked")

// Manager runs background tasks with a bounded number of goroutines.
//
// Errors returned by tasks, and recovered panics, are collected and handed
// back by Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	running atomic.Int64
}

// NewManager creates a Manager allowing at most maxGoroutine tasks at once.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go runs f in its own goroutine. When every slot is busy it blocks until one
// frees up or ctx is done; in the latter case f is skipped.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	select {
	case g.sema <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "background task skipped", "error", ctx.Err())
		return
	}

	g.spawn(ctx, f)
}

// TryGo runs f in its own goroutine only if a slot is free right now. It
// reports whether f was scheduled.
func (g *Manager) TryGo(ctx context.Context, f func(ctx context.Context) error) bool {
	select {
	case g.sema <- struct{}{}:
	default:
		return false
	}

	g.spawn(ctx, f)
	return true
}

// spawn starts f; the caller must already hold a slot.
func (g *Manager) spawn(ctx context.Context, f func(ctx context.Context) error) {
	g.wg.Add(1)
	g.running.Add(1)
	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic in background task", "panic", rvr, "stack", string(debug.Stack()))
				g.collect(fmt.Errorf("%w: %v", ErrPanic, rvr))
			}
			g.running.Add(-1)
			<-g.sema
			g.wg.Done()
		}()

		if ctx.Err() != nil {
			slog.WarnContext(ctx, "background task skipped", "error", ctx.Err())
			return
		}

		if err := f(ctx); err != nil {
			g.collect(err)
		}
	}()
}

// Running reports how many tasks are executing right now.
func (g *Manager) Running() int {
	return int(g.running.Load())
}

// Wait blocks until every scheduled task has finished and returns the errors
// collected since the previous Wait.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	err := errors.Join(g.errs...)
	g.errs = nil
	return err
}

// WaitContext is Wait bounded by ctx. When ctx ends first it returns ctx's
// error and leaves the remaining tasks running.
func (g *Manager) WaitContext(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}
