package storage

import (
	"time"

	"github.com/quizfolkco/rote/pkg/review"
)

// CurrentVersion is the snapshot schema version written by this build.
const CurrentVersion = 1

// Snapshot is the persisted review state for one knowledge base: the
// learning state of every item, the mastered set, and the saved session
// order. Questions and answers live in the knowledge base catalog, not
// here; a loaded snapshot is merged back onto the catalog by item id.
type Snapshot struct {
	Version        int                     `json:"version"`
	SavedAt        time.Time               `json:"savedAt"`
	Items          map[string]ItemSnapshot `json:"items"`
	MasteredItems  []string                `json:"masteredItems"`
	ReviewSequence []string                `json:"reviewSequence"`
}

// ItemSnapshot is the persisted learning state of one item.
type ItemSnapshot struct {
	Interval           int         `json:"interval"`
	Ease               float64     `json:"easinessFactor"`
	ConsecutiveCorrect int         `json:"consecutiveCorrect"`
	Due                review.Date `json:"dueDate"`
	Mastered           bool        `json:"mastered"`
	WrongCount         int         `json:"wrongCount"`
	CorrectCount       int         `json:"correctCount"`
	ReviewCount        int         `json:"reviewCount"`
	LearningStep       int         `json:"learningStep"`
}

// New returns an empty snapshot at the current schema version.
func New() *Snapshot {
	return &Snapshot{
		Version: CurrentVersion,
		Items:   make(map[string]ItemSnapshot),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Version: s.Version,
		SavedAt: s.SavedAt,
		Items:   make(map[string]ItemSnapshot, len(s.Items)),
	}
	for id, item := range s.Items {
		out.Items[id] = item
	}
	if s.MasteredItems != nil {
		out.MasteredItems = append([]string(nil), s.MasteredItems...)
	}
	if s.ReviewSequence != nil {
		out.ReviewSequence = append([]string(nil), s.ReviewSequence...)
	}
	return out
}

// Stamped returns a copy carrying the current schema version and the given
// save time. Drivers call this on every Save so stored snapshots always
// record when and under which schema they were written.
func (s *Snapshot) Stamped(now time.Time) *Snapshot {
	out := s.Clone()
	out.Version = CurrentVersion
	out.SavedAt = now.UTC()
	return out
}

// Normalize repairs out-of-range values after a load: easiness is raised to
// the scheduling floor, intervals to one day. Snapshots written before
// versioning existed are stamped with the current version. Drivers call
// this on every Load so hand-edited or legacy files cannot smuggle invalid
// state into an engine.
func (s *Snapshot) Normalize() {
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if s.Items == nil {
		s.Items = make(map[string]ItemSnapshot)
	}
	for id, item := range s.Items {
		if item.Interval < 1 {
			item.Interval = 1
		}
		if item.Ease < review.DefaultMinEase {
			item.Ease = review.DefaultMinEase
		}
		s.Items[id] = item
	}
}
