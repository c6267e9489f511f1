package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// EventReader consumes token created events
type EventReader struct {
	reader messageReader
}

// NewEventReader creates a consumer group reader on settings.Topic
func NewEventReader(settings config.EventSettings) (*EventReader, error) {
	if len(settings.Brokers) == 0 || settings.Topic == "" {
		return nil, fmt.Errorf("brokers and topic are required")
	}
	// without a group kafka-go only reads partition 0
	if settings.GroupID == "" {
		return nil, fmt.Errorf("group id is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  settings.Brokers,
		Topic:    settings.Topic,
		GroupID:  settings.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &EventReader{reader: reader}, nil
}

// Tail hands every event to handle until ctx is canceled or handle fails.
// Cancellation is a normal shutdown and returns nil.
func (r *EventReader) Tail(ctx context.Context, handle func(tokens.TokenCreatedEvent) error) error {
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to read event: %w", err)
		}

		var event tokens.TokenCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to decode event at offset %d: %w", msg.Offset, err)
		}

		if err := handle(event); err != nil {
			return err
		}
	}
}

// Close closes the underlying reader
func (r *EventReader) Close() error {
	return r.reader.Close()
}
