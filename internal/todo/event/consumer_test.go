package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

type handlerFunc func(ctx context.Context, event entity.TaskEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.TaskEvent) error {
	return h(ctx, event)
}

type countingRecorder struct {
	mu      sync.Mutex
	results map[string]int
}

func (r *countingRecorder) TaskEvent(eventType, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[string]int{}
	}
	r.results[eventType+"/"+result]++
}

func TestConsumerRetriesAndIdempotent(t *testing.T) {
	bus := NewBus(10, nil)
	rec := &countingRecorder{}

	var attempts int32
	done := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, event entity.TaskEvent) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("temporary failure")
		}
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})

	consumer := NewConsumer(bus, handler, rec, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()

	event := entity.TaskEvent{EventID: 42, Type: entity.EventTaskCreated, TaskID: "t1"}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler")
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if got := rec.results["TASK_CREATED/delivered"]; got != 1 {
		t.Fatalf("expected 1 delivered record, got %d", got)
	}
}

func TestConsumerGivesUpAfterMaxRetries(t *testing.T) {
	bus := NewBus(1, nil)
	rec := &countingRecorder{}

	var attempts int32
	handler := handlerFunc(func(ctx context.Context, event entity.TaskEvent) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("broker down")
	})

	consumer := NewConsumer(bus, handler, rec, ConsumerConfig{Workers: 1, MaxRetries: 1, BaseBackoff: time.Millisecond})
	consumer.Start()

	if err := bus.Publish(context.Background(), entity.TaskEvent{EventID: 7, Type: entity.EventTaskDeleted}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
	if got := rec.results["TASK_DELETED/failed"]; got != 1 {
		t.Fatalf("expected 1 failed record, got %d", got)
	}
}

func TestBusClosed(t *testing.T) {
	bus := NewBus(1, nil)
	bus.Close()
	bus.Close()

	if err := bus.Publish(context.Background(), entity.TaskEvent{}); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBusPublishDropsWhenFull(t *testing.T) {
	rec := &countingRecorder{}
	bus := NewBus(1, rec)
	if err := bus.Publish(context.Background(), entity.TaskEvent{Type: entity.EventTaskCreated}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if got := bus.Pending(); got != 1 {
		t.Fatalf("expected 1 pending event, got %d", got)
	}

	done := make(chan error, 1)
	go func() {
		done <- bus.Publish(context.Background(), entity.TaskEvent{Type: entity.EventTaskCreated})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrBusFull) {
			t.Fatalf("expected ErrBusFull, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full bus")
	}

	if got := rec.results["TASK_CREATED/dropped"]; got != 1 {
		t.Fatalf("expected 1 dropped record, got %d", got)
	}
	if got := bus.Pending(); got != 1 {
		t.Fatalf("expected 1 pending event, got %d", got)
	}
}

func TestBusPublishHonoursCancelledContext(t *testing.T) {
	bus := NewBus(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := bus.Publish(ctx, entity.TaskEvent{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if got := bus.Pending(); got != 0 {
		t.Fatalf("expected empty bus, got %d", got)
	}
}
