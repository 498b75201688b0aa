package eventstream

import "context"

// Publisher publishes review events to an event stream backend.
type Publisher interface {
	PublishReview(ctx context.Context, event *ReviewRecordedEvent) error
	Close() error
}
