package event

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shandysiswandi/gotask/internal/todo/entity"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
)

// Producer is the part of *kgo.Client used to publish records.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher is a Handler that writes every task event to Kafka, keyed by
// user ID so one user's events keep their order within a partition.
type KafkaPublisher struct {
	client Producer
	topic  string
}

// NewKafkaPublisher returns a publisher; an empty topic uses the client's
// default produce topic.
func NewKafkaPublisher(client Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic}
}

func (p *KafkaPublisher) Handle(ctx context.Context, event entity.TaskEvent) error {
	rec, err := eventToRecord(event, p.topic)
	if err != nil {
		return err
	}

	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish task event: %w", err)
	}
	return nil
}

type taskPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type eventPayload struct {
	EventID    int64       `json:"eventId"`
	Type       string      `json:"type"`
	UserID     string      `json:"userId"`
	TaskID     string      `json:"taskId"`
	Task       taskPayload `json:"task"`
	OccurredAt time.Time   `json:"occurredAt"`
}

func eventToRecord(event entity.TaskEvent, topic string) (*kgo.Record, error) {
	value, err := json.Marshal(eventPayload{
		EventID: event.EventID,
		Type:    string(event.Type),
		UserID:  event.UserID,
		TaskID:  event.TaskID,
		Task: taskPayload{
			ID:          event.Task.ID,
			Title:       event.Task.Title,
			Description: event.Task.Description,
			Priority:    event.Task.Priority,
			IsCompleted: event.Task.IsCompleted,
			CreatedAt:   event.Task.CreatedAt,
			UpdatedAt:   event.Task.UpdatedAt,
		},
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode task event: %w", err)
	}

	return &kgo.Record{
		Topic:     topic,
		Key:       []byte(event.UserID),
		Value:     value,
		Timestamp: event.OccurredAt,
		Headers: []kgo.RecordHeader{
			{Key: HeaderEventID, Value: binary.BigEndian.AppendUint64(nil, uint64(event.EventID))},
			{Key: HeaderEventType, Value: []byte(event.Type)},
		},
	}, nil
}
