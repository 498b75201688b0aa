// Package eventstream defines transport-neutral review events and the
// Publisher interface for shipping them to external consumers (analytics,
// sync pipelines). Backends live in subpackages.
package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeReviewRecorded is emitted after a review action is applied
	// and the engine snapshot is persisted.
	EventTypeReviewRecorded = "rote.review.recorded"
)

// ReviewRecordedEvent is a transport-neutral event payload for a recorded review.
type ReviewRecordedEvent struct {
	SchemaVersion int              `json:"schema_version"`
	EventType     string           `json:"event_type"`
	EventID       string           `json:"event_id"`
	EmittedAt     time.Time        `json:"emitted_at"`
	KnowledgeBase string           `json:"knowledge_base"`
	ItemID        string           `json:"item_id"`
	Outcome       string           `json:"outcome"`
	Result        ReviewResultMeta `json:"result"`
}

// ReviewResultMeta captures engine totals after the review was applied.
type ReviewResultMeta struct {
	TotalMastered  int `json:"total_mastered"`
	RemainingItems int `json:"remaining_items"`
	TotalItems     int `json:"total_items"`
}

// NewReviewRecordedEvent builds a ReviewRecordedEvent with a fresh event ID
// and the current UTC timestamp.
func NewReviewRecordedEvent(knowledgeBase, itemID, outcome string, result ReviewResultMeta) *ReviewRecordedEvent {
	return &ReviewRecordedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeReviewRecorded,
		EventID:       uuid.New().String(),
		EmittedAt:     time.Now().UTC(),
		KnowledgeBase: knowledgeBase,
		ItemID:        itemID,
		Outcome:       outcome,
		Result:        result,
	}
}
