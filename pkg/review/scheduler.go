package review

import (
	"math"
	"sort"
)

// Defaults for Config fields left at their zero value.
const (
	// DefaultMinEase is the floor for the easiness factor.
	DefaultMinEase = 1.3

	// DefaultEase is the easiness factor for never-reviewed cards.
	DefaultEase = 2.5

	// DefaultMaxInterval caps the interval in days.
	DefaultMaxInterval = 365

	// DefaultMasteryEase and DefaultMasteryStreak are the strict lower
	// bounds for auto-mastery: a card masters when its easiness exceeds
	// the ease bound and its streak exceeds the streak bound.
	DefaultMasteryEase   = 3.0
	DefaultMasteryStreak = 7
)

// Blend weights for the forgotten-path easiness decay. The new easiness is
// a weighted mix of the old value and a penalized, floor-clamped copy.
const (
	easeKeep    = 0.8
	easeMix     = 0.2
	easePenalty = 0.54
)

// Config tunes the scheduling rule. The zero value selects the defaults.
type Config struct {
	// MinEase is the easiness floor. Easiness never drops below it.
	MinEase float64

	// DefaultEase is the easiness assigned to fresh cards.
	DefaultEase float64

	// MaxInterval caps the interval in days.
	MaxInterval int

	// MasteryEase is the strict easiness bound for auto-mastery.
	MasteryEase float64

	// MasteryStreak is the strict consecutive-correct bound for
	// auto-mastery.
	MasteryStreak int
}

// WithDefaults returns c with zero-value fields replaced by the defaults.
func (c Config) WithDefaults() Config {
	if c.MinEase == 0 {
		c.MinEase = DefaultMinEase
	}
	if c.DefaultEase == 0 {
		c.DefaultEase = DefaultEase
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = DefaultMaxInterval
	}
	if c.MasteryEase == 0 {
		c.MasteryEase = DefaultMasteryEase
	}
	if c.MasteryStreak == 0 {
		c.MasteryStreak = DefaultMasteryStreak
	}
	return c
}

// Scheduler applies the spaced-repetition update rule to cards.
type Scheduler struct {
	cfg Config
}

// NewScheduler creates a Scheduler with the given tuning.
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg.WithDefaults()}
}

// Config returns the effective tuning, defaults applied.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Apply returns the card updated for the given outcome reviewed on the
// given day. The input card is not modified; reporting counters are the
// engine's concern and are left untouched here. An invalid outcome returns
// the card unchanged together with ErrInvalidOutcome.
func (s *Scheduler) Apply(card Card, outcome Outcome, today Date) (Card, error) {
	switch outcome {
	case OutcomeRecognized:
		return s.applyRecognized(card, today), nil
	case OutcomeForgotten:
		return s.applyForgotten(card, today), nil
	default:
		return card, ErrInvalidOutcome
	}
}

// applyRecognized advances the card's streak and spaces the next review
// further out. Easiness is unchanged on this path. The first two reviews of
// a streak use fixed intervals of 1 and 3 days; after that the interval
// grows multiplicatively by the easiness factor, rounded half away from
// zero.
func (s *Scheduler) applyRecognized(card Card, today Date) Card {
	card.ConsecutiveCorrect++

	switch {
	case card.ConsecutiveCorrect == 1:
		card.Interval = 1
	case card.ConsecutiveCorrect == 2:
		card.Interval = 3
	default:
		card.Interval = int(math.Round(float64(card.Interval) * card.Ease))
	}

	if card.Interval > s.cfg.MaxInterval {
		card.Interval = s.cfg.MaxInterval
	}
	if card.Interval < 1 {
		card.Interval = 1
	}

	if card.Ease > s.cfg.MasteryEase && card.ConsecutiveCorrect > s.cfg.MasteryStreak {
		card.Mastered = true
	}

	card.Due = today.AddDays(card.Interval)
	return card
}

// applyForgotten resets the card to a one-day interval and decays its
// easiness. Mastery, once reached, is not revoked by forgetting.
func (s *Scheduler) applyForgotten(card Card, today Date) Card {
	card.ConsecutiveCorrect = 0
	card.Interval = 1

	floor := math.Max(card.Ease-easePenalty, s.cfg.MinEase)
	card.Ease = easeKeep*card.Ease + easeMix*floor
	if card.Ease < s.cfg.MinEase {
		card.Ease = s.cfg.MinEase
	}

	card.Due = today.AddDays(1)
	return card
}

// CollectDue returns the cards due on or before today, mastered cards
// excluded, ordered ascending by due date. Cards sharing a due date keep
// their relative input order, so callers that feed a stable ordering get a
// deterministic queue.
func CollectDue(cards []Card, today Date) []Card {
	due := make([]Card, 0, len(cards))
	for _, card := range cards {
		if card.Mastered {
			continue
		}
		if card.Due.After(today) {
			continue
		}
		due = append(due, card)
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Due.Before(due[j].Due)
	})

	return due
}
