package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.TaskEvent) error
}

// Recorder counts event outcomes; result is "delivered", "failed" or "dropped".
type Recorder interface {
	TaskEvent(eventType, result string)
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// Consumer drains the bus with a fixed worker pool and hands each event to the
// handler, retrying with exponential backoff. Events are deduplicated by ID.
type Consumer struct {
	bus         *Bus
	handler     Handler
	recorder    Recorder
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewConsumer(bus *Bus, handler Handler, recorder Recorder, cfg ConsumerConfig) *Consumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &Consumer{
		bus:         bus,
		handler:     handler,
		recorder:    recorder,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		stop:        make(chan struct{}),
	}
}

func (c *Consumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for the workers to drain what is buffered.
// When ctx expires first, pending retries are abandoned.
func (c *Consumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		slog.InfoContext(ctx, "draining task events", "pending", c.bus.Pending())
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.stopOnce.Do(func() { close(c.stop) })
		return ctx.Err()
	}
}

func (c *Consumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *Consumer) processEvent(event entity.TaskEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != 0 {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate task event", "event_id", event.EventID, "task_id", event.TaskID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			c.record(event, "delivered")
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to deliver task event after retries", "event_id", event.EventID, "type", event.Type, "task_id", event.TaskID, "error", err)
			c.record(event, "failed")
			return
		}

		if !c.sleepBackoff(backoff) {
			c.record(event, "failed")
			return
		}
		backoff *= 2
	}
}

func (c *Consumer) record(event entity.TaskEvent, result string) {
	if c.recorder != nil {
		c.recorder.TaskEvent(string(event.Type), result)
	}
}

func (c *Consumer) sleepBackoff(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.stop:
		return false
	}
}

// LogHandler is the handler used when no broker is configured.
type LogHandler struct{}

func (LogHandler) Handle(ctx context.Context, event entity.TaskEvent) error {
	slog.InfoContext(ctx, "task event",
		"event_id", event.EventID,
		"type", event.Type,
		"user_id", event.UserID,
		"task_id", event.TaskID,
	)
	return nil
}
