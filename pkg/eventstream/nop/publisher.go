package nop

import (
	"context"

	"github.com/quizfolkco/rote/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishReview validates input and otherwise does nothing.
func (p *Publisher) PublishReview(_ context.Context, event *eventstream.ReviewRecordedEvent) error {
	if event == nil {
		return eventstream.ErrNilReviewEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
