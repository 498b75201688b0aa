package review

import (
	"math/rand"
	"time"
)

// Defaults for how far ahead a forgotten card is pushed back into the
// session, in positions.
const (
	DefaultReinsertMin = 8
	DefaultReinsertMax = 12
)

// SequencerConfig tunes a Sequencer. The zero value selects the defaults
// and a time-seeded random source.
type SequencerConfig struct {
	// ReinsertMin and ReinsertMax bound the random distance a forgotten
	// card is moved ahead, inclusive on both ends.
	ReinsertMin int
	ReinsertMax int

	// Rand drives the reinsertion draw. Pass a seeded source for
	// reproducible sessions.
	Rand *rand.Rand
}

// Sequencer orders the cards of one active review session. It tracks ids
// only; card state lives with the engine. The head of the sequence is the
// current card. Sequencers are not safe for concurrent use.
type Sequencer struct {
	ids         []string
	rng         *rand.Rand
	reinsertMin int
	reinsertMax int
}

// NewSequencer creates a Sequencer over the given ids. Duplicates collapse
// to their first occurrence.
func NewSequencer(ids []string, cfg SequencerConfig) *Sequencer {
	if cfg.ReinsertMin == 0 {
		cfg.ReinsertMin = DefaultReinsertMin
	}
	if cfg.ReinsertMax == 0 {
		cfg.ReinsertMax = DefaultReinsertMax
	}
	if cfg.ReinsertMax < cfg.ReinsertMin {
		cfg.ReinsertMax = cfg.ReinsertMin
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Sequencer{
		ids:         make([]string, 0, len(ids)),
		rng:         cfg.Rand,
		reinsertMin: cfg.ReinsertMin,
		reinsertMax: cfg.ReinsertMax,
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}

	return s
}

// Next returns the id at the head of the sequence, or false if the session
// is exhausted.
func (s *Sequencer) Next() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[0], true
}

// Len returns the number of ids remaining in the session.
func (s *Sequencer) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the sequence in order.
func (s *Sequencer) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// OnRecognized advances the session past id. Mastered cards leave the
// sequence for good; anything else moves to the back and comes around again
// on the next full pass.
func (s *Sequencer) OnRecognized(id string, mastered bool) {
	if !s.remove(id) {
		return
	}
	if !mastered {
		s.ids = append(s.ids, id)
	}
}

// OnForgotten pushes id a short random distance ahead so it comes back
// during the current pass. The distance is drawn uniformly from
// [ReinsertMin, ReinsertMax]; the insertion point is clamped to the end of
// the sequence.
func (s *Sequencer) OnForgotten(id string) {
	pos := s.indexOf(id)
	if pos < 0 {
		pos = 0
	} else {
		s.removeAt(pos)
	}

	k := s.reinsertMin + s.rng.Intn(s.reinsertMax-s.reinsertMin+1)
	at := pos + k
	if at > len(s.ids) {
		at = len(s.ids)
	}

	s.ids = append(s.ids, "")
	copy(s.ids[at+1:], s.ids[at:])
	s.ids[at] = id
}

// Remove drops id from the sequence wherever it is. Returns false if the id
// was not present.
func (s *Sequencer) Remove(id string) bool {
	return s.remove(id)
}

func (s *Sequencer) remove(id string) bool {
	pos := s.indexOf(id)
	if pos < 0 {
		return false
	}
	s.removeAt(pos)
	return true
}

func (s *Sequencer) removeAt(pos int) {
	s.ids = append(s.ids[:pos], s.ids[pos+1:]...)
}

func (s *Sequencer) indexOf(id string) int {
	for i, candidate := range s.ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

// clone copies the sequence. The random source is shared with the original;
// callers that need divergent draws must construct a new Sequencer.
func (s *Sequencer) clone() *Sequencer {
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return &Sequencer{
		ids:         ids,
		rng:         s.rng,
		reinsertMin: s.reinsertMin,
		reinsertMax: s.reinsertMax,
	}
}
