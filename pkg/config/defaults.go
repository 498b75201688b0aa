package config

import (
	"github.com/quizfolkco/rote/pkg/review"
)

const (
	defaultStorageDriver = "file"

	defaultAPIListen = ":1200"

	defaultClientAPITarget = "http://localhost:1200"

	defaultEventsBackend = "nop"
	defaultEventsTopic   = "rote.reviews"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values. Scheduling
// defaults come from the review package so the two cannot drift.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Driver: defaultStorageDriver,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Review: ReviewConfig{
			DefaultEase:   review.DefaultEase,
			MinEase:       review.DefaultMinEase,
			MaxInterval:   review.DefaultMaxInterval,
			MasteryEase:   review.DefaultMasteryEase,
			MasteryStreak: review.DefaultMasteryStreak,
			ReinsertMin:   review.DefaultReinsertMin,
			ReinsertMax:   review.DefaultReinsertMax,
			Watch:         true,
		},
		Events: EventsConfig{
			Backend: defaultEventsBackend,
			Topic:   defaultEventsTopic,
		},
	}
}
