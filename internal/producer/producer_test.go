package producer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"gameswap/internal/apperr"
)

func TestPublishUnserializablePayload(t *testing.T) {
	p := New("localhost:9092", slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer p.Close()

	err := p.Publish(context.Background(), "trade-offers", make(chan int))
	if err == nil {
		t.Fatal("Expected error for unserializable payload")
	}

	var pubErr *apperr.PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("Expected *apperr.PublishError, got %T", err)
	}
	if pubErr.Topic != "trade-offers" {
		t.Errorf("Expected topic 'trade-offers', got '%s'", pubErr.Topic)
	}
}
