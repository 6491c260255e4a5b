package pkgkafka

import (
	"context"
	"errors"
	"testing"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(context.Background(), nil, "topic", "gotask"); !errors.Is(err, ErrNoBrokers) {
		t.Fatalf("expected ErrNoBrokers, got %v", err)
	}
}
