package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Event delivery outcomes reported to the Recorder
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDropped = "dropped"
)

const writeTimeout = 10 * time.Second

var (
	// ErrBufferFull is returned when an event is dropped because the buffer is full
	ErrBufferFull = errors.New("event buffer is full")
	// ErrPublisherClosed is returned for events published after Close
	ErrPublisherClosed = errors.New("event publisher is closed")
)

// Recorder receives one outcome per published event
type Recorder interface {
	EventPublished(result string)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type asyncPublisher struct {
	writer   messageWriter
	recorder Recorder
	logger   logger.Logger

	mu     sync.RWMutex
	closed bool
	events chan tokens.TokenCreatedEvent
	wg     sync.WaitGroup
}

// NewKafkaPublisher creates an EventPublisher writing to settings.Topic.
// Events are buffered and written by a background worker so publishing never blocks the caller.
func NewKafkaPublisher(settings config.EventSettings, recorder Recorder, logger logger.Logger) (tokens.EventPublisher, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event settings: %w", err)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(settings.Brokers...),
		Topic:                  settings.Topic,
		Balancer:               &kafka.RoundRobin{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info(fmt.Sprintf("Publishing token events to topic %s on %v", settings.Topic, settings.Brokers))
	return newAsyncPublisher(writer, settings.BufferSize, recorder, logger), nil
}

func newAsyncPublisher(writer messageWriter, bufferSize int, recorder Recorder, logger logger.Logger) *asyncPublisher {
	p := &asyncPublisher{
		writer:   writer,
		recorder: recorder,
		logger:   logger,
		events:   make(chan tokens.TokenCreatedEvent, bufferSize),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

func (p *asyncPublisher) PublishTokenCreated(_ context.Context, event tokens.TokenCreatedEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.events <- event:
		return nil
	default:
		p.record(ResultDropped)
		return fmt.Errorf("dropped event for token %s: %w", event.Token, ErrBufferFull)
	}
}

// Close stops accepting events, drains the buffer and closes the writer
func (p *asyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	p.wg.Wait()

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

func (p *asyncPublisher) run() {
	defer p.wg.Done()

	for event := range p.events {
		if err := p.write(event); err != nil {
			p.record(ResultFailure)
			p.logger.Error(fmt.Sprintf("Failed to publish event for token %s: %v", event.Token, err))
			continue
		}
		p.record(ResultSuccess)
	}
}

func (p *asyncPublisher) write(event tokens.TokenCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Token),
		Value: payload,
		Time:  event.DateTimeCreated,
	})
}

func (p *asyncPublisher) record(result string) {
	if p.recorder != nil {
		p.recorder.EventPublished(result)
	}
}

type noopPublisher struct{}

// NewNoopPublisher returns an EventPublisher that discards every event
func NewNoopPublisher() tokens.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishTokenCreated(context.Context, tokens.TokenCreatedEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
