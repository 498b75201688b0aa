// Package review implements the spaced-repetition core: per-card learning
// state, the long-term scheduling rule that spaces reviews out over calendar
// days, and the in-session sequencer that orders cards within one active
// review batch.
package review

import (
	"crypto/sha256"
	"encoding/hex"
)

// idLength is the number of hex characters kept from a content hash.
const idLength = 16

// Card is the per-item learning record for one flashcard.
type Card struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Scheduling state.
	Interval           int     `json:"interval"`
	Ease               float64 `json:"easinessFactor"`
	ConsecutiveCorrect int     `json:"consecutiveCorrect"`
	Due                Date    `json:"dueDate"`
	Mastered           bool    `json:"mastered"`

	// Reporting counters, maintained by the engine.
	WrongCount   int `json:"wrongCount"`
	CorrectCount int `json:"correctCount"`
	ReviewCount  int `json:"reviewCount"`
	LearningStep int `json:"learningStep"`
}

// NewCard returns a fresh card due today, with the default scheduling state
// for never-reviewed content.
func NewCard(id, question, answer string, today Date) Card {
	return Card{
		ID:       id,
		Question: question,
		Answer:   answer,
		Interval: 1,
		Ease:     DefaultEase,
		Due:      today,
	}
}

// ItemID derives a stable identifier from card content, so a card keeps its
// learning state when its knowledge base is reloaded or reordered.
func ItemID(question, answer string) string {
	sum := sha256.Sum256([]byte(question + "|" + answer))
	return hex.EncodeToString(sum[:])[:idLength]
}
