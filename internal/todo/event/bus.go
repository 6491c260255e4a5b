package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// ResultDropped is recorded for events rejected because the buffer was full.
const ResultDropped = "dropped"

// Bus is a bounded in-process queue of task events. Publish never waits for
// room: when the buffer is full the event is dropped and counted.
type Bus struct {
	mu       sync.RWMutex
	closed   bool
	ch       chan entity.TaskEvent
	recorder Recorder
}

// NewBus returns a bus holding up to buffer events. recorder may be nil.
func NewBus(buffer int, recorder Recorder) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch:       make(chan entity.TaskEvent, buffer),
		recorder: recorder,
	}
}

func (b *Bus) Publish(ctx context.Context, event entity.TaskEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		return nil
	default:
		if b.recorder != nil {
			b.recorder.TaskEvent(string(event.Type), ResultDropped)
		}
		return ErrBusFull
	}
}

// Pending reports how many events are buffered and not yet picked up.
func (b *Bus) Pending() int {
	return len(b.ch)
}

func (b *Bus) Subscribe() <-chan entity.TaskEvent {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
