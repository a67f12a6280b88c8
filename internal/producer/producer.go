// Package producer publishes lifecycle event envelopes to the message
// bus. The process owns exactly one writer, constructed at startup and
// closed on shutdown.
package producer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gameswap/internal/apperr"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// New creates a Producer connected to the given broker. The writer is
// shared across topics; each message carries its own topic.
func New(broker string, logger *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// Publish serializes payload as JSON and appends it to topic. A failed
// publish returns *apperr.PublishError and never undoes the store write
// that preceded it: callers log and count the error, the trade state
// change stays authoritative.
func (p *Producer) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &apperr.PublishError{Topic: topic, Err: err}
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Topic: topic,
		Value: data,
	})
	if err != nil {
		return &apperr.PublishError{Topic: topic, Err: err}
	}

	p.logger.Debug("Published event", "topic", topic, "bytes", len(data))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
