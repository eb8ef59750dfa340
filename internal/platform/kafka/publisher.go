// Package kafka forwards result lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/phrazzld/uranai-api/internal/events"
)

// Header names set on every published message.
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements events.EventHandler by writing each event to Kafka.
// Messages are keyed by result ID so that the events of one result stay
// ordered within a partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a Publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher requires a topic")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	return newPublisher(writer, topic, logger), nil
}

func newPublisher(writer messageWriter, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: logger.With(slog.String("component", "kafka_publisher"), slog.String("topic", topic)),
	}
}

var _ events.EventHandler = (*Publisher)(nil)

// HandleEvent implements events.EventHandler.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	msg := kafka.Message{
		Key:   messageKey(event),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderEventID, Value: []byte(event.ID.String())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	p.logger.Debug("event published",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type))
	return nil
}

// Close flushes and releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func messageKey(event *events.Event) []byte {
	var payload events.ResultPayload
	if err := event.UnmarshalPayload(&payload); err == nil && payload.ResultID != uuid.Nil {
		return []byte(payload.ResultID.String())
	}
	return []byte(event.ID.String())
}
