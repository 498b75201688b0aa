// Package kafka publishes review events to a Kafka topic using segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/quizfolkco/rote/pkg/eventstream"
)

// Config holds the Kafka publisher settings.
type Config struct {
	// Brokers is the list of bootstrap broker addresses (host:port).
	Brokers []string

	// Topic is the Kafka topic review events are written to.
	Topic string
}

// Publisher writes review events to a Kafka topic. Messages are keyed by
// knowledge base name so all events for one knowledge base land on the same
// partition in order.
type Publisher struct {
	writer *kafka.Writer
}

var _ eventstream.Publisher = (*Publisher)(nil)

// NewPublisher creates a Kafka-backed eventstream publisher.
func NewPublisher(config Config) (*Publisher, error) {
	if len(config.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if config.Topic == "" {
		return nil, errors.New("topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{writer: writer}, nil
}

// PublishReview marshals the event to JSON and writes it to the topic.
func (p *Publisher) PublishReview(ctx context.Context, event *eventstream.ReviewRecordedEvent) error {
	if event == nil {
		return eventstream.ErrNilReviewEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling review event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.KnowledgeBase),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("writing review event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
