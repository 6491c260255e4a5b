package pkgroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	if got := cap(mgr.sema); got != DefaultMaxGoroutine {
		t.Fatalf("expected cap %d, got %d", DefaultMaxGoroutine, got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	if !errors.Is(joined, errOne) || !errors.Is(joined, errTwo) {
		t.Fatalf("expected both errors, got %v", joined)
	}

	if err := mgr.Wait(); err != nil {
		t.Fatalf("errors should reset after Wait, got %v", err)
	}
}

func TestManagerRecoversPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	err := mgr.Wait()
	if !errors.Is(err, ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}

	// the slot must be released after a panic
	done := make(chan struct{})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		close(done)
		return nil
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("slot was not released")
	}
	_ = mgr.Wait()
}

func TestManagerBlocksWhenFull(t *testing.T) {
	mgr := NewManager(1)
	release := make(chan struct{})
	var ran atomic.Int32

	mgr.Go(context.Background(), func(ctx context.Context) error {
		<-release
		ran.Add(1)
		return nil
	})

	started := make(chan struct{})
	go func() {
		mgr.Go(context.Background(), func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		close(started)
	}()

	select {
	case <-started:
		t.Fatal("second task scheduled while the only slot was busy")
	case <-time.After(50 * time.Millisecond):
	}

	if got := mgr.Running(); got != 1 {
		t.Fatalf("expected 1 running, got %d", got)
	}

	close(release)
	<-started

	if err := mgr.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if ran.Load() != 2 {
		t.Fatalf("expected both tasks to run, got %d", ran.Load())
	}
}

func TestManagerSkipsWhenContextDone(t *testing.T) {
	mgr := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	mgr.Go(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})

	if err := mgr.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if called {
		t.Fatal("task ran with a cancelled context")
	}
}

func TestManagerTryGoNeverBlocks(t *testing.T) {
	mgr := NewManager(1)
	release := make(chan struct{})

	if !mgr.TryGo(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	}) {
		t.Fatal("expected first task to be scheduled")
	}

	done := make(chan bool, 1)
	go func() {
		done <- mgr.TryGo(context.Background(), func(ctx context.Context) error {
			return nil
		})
	}()

	select {
	case scheduled := <-done:
		if scheduled {
			t.Fatal("second task scheduled while the only slot was busy")
		}
	case <-time.After(time.Second):
		t.Fatal("TryGo blocked on a full manager")
	}

	close(release)
	if err := mgr.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if !mgr.TryGo(context.Background(), func(ctx context.Context) error { return nil }) {
		t.Fatal("expected a free slot after Wait")
	}
	_ = mgr.Wait()
}

func TestManagerWaitContextGivesUp(t *testing.T) {
	mgr := NewManager(1)
	release := make(chan struct{})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := mgr.WaitContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	close(release)
	if err := mgr.WaitContext(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}
