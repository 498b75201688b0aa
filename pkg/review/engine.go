package review

import (
	"fmt"
	"math/rand"
	"sort"
)

// EngineConfig configures a new Engine. The zero value selects the
// scheduling and sequencing defaults with a time-seeded random source.
type EngineConfig struct {
	// Scheduler tunes the long-term scheduling rule.
	Scheduler Config

	// ReinsertMin and ReinsertMax bound the forgotten-card reinsertion
	// distance of the session sequencer.
	ReinsertMin int
	ReinsertMax int

	// Rand drives the sequencer's reinsertion draw. Pass a seeded source
	// for reproducible sessions.
	Rand *rand.Rand
}

// Engine owns the full review state for one knowledge base: every card's
// learning record, the set of mastered ids, and the active session order.
// Engines are not safe for concurrent use; callers serialize access, and
// mutate a Clone when they need all-or-nothing commit semantics.
type Engine struct {
	name      string
	cfg       EngineConfig
	scheduler *Scheduler
	cards     map[string]Card
	order     []string
	mastered  map[string]struct{}
	seq       *Sequencer
}

// Result reports the session after a review operation.
type Result struct {
	NextItem       *ItemView `json:"nextItem"`
	TotalMastered  int       `json:"totalMastered"`
	RemainingItems int       `json:"remainingItems"`
	TotalItems     int       `json:"totalItems"`
}

// ItemView is the caller-facing slice of a card: what a client needs to
// pose the question.
type ItemView struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ExportData is the full reporting payload for one knowledge base.
type ExportData struct {
	Items          map[string]Card `json:"items"`
	MasteredItems  []string        `json:"masteredItems"`
	TotalItems     int             `json:"totalItems"`
	ReviewSequence []string        `json:"reviewSequence"`
}

// NewEngine builds an engine over the given cards. Card order defines the
// engine's insertion order, which CollectDue uses to break due-date ties.
// The session sequence starts as the due queue for today. Duplicate ids
// collapse to their first occurrence.
func NewEngine(name string, cards []Card, today Date, cfg EngineConfig) *Engine {
	e := &Engine{
		name:      name,
		cfg:       cfg,
		scheduler: NewScheduler(cfg.Scheduler),
		cards:     make(map[string]Card, len(cards)),
		order:     make([]string, 0, len(cards)),
		mastered:  make(map[string]struct{}),
	}

	minEase := e.scheduler.Config().MinEase
	for _, card := range cards {
		if _, ok := e.cards[card.ID]; ok {
			continue
		}
		if card.Interval < 1 {
			card.Interval = 1
		}
		if card.Ease < minEase {
			card.Ease = minEase
		}
		if card.Due.IsZero() {
			card.Due = today
		}
		e.cards[card.ID] = card
		e.order = append(e.order, card.ID)
		if card.Mastered {
			e.mastered[card.ID] = struct{}{}
		}
	}

	e.seq = e.newSequencer(e.dueIDs(today))
	return e
}

// RestoreSequence replaces the session order with a previously saved one.
// Unknown ids, mastered ids, and duplicates are dropped.
func (e *Engine) RestoreSequence(ids []string) {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		card, ok := e.cards[id]
		if !ok || card.Mastered {
			continue
		}
		kept = append(kept, id)
	}
	e.seq = e.newSequencer(kept)
}

// Name returns the knowledge base this engine belongs to.
func (e *Engine) Name() string {
	return e.name
}

// Len returns the total number of cards.
func (e *Engine) Len() int {
	return len(e.cards)
}

// MasteredCount returns the number of mastered cards.
func (e *Engine) MasteredCount() int {
	return len(e.mastered)
}

// Remaining returns the number of cards left in the active session.
func (e *Engine) Remaining() int {
	return e.seq.Len()
}

// Card returns the card with the given id.
func (e *Engine) Card(id string) (Card, bool) {
	card, ok := e.cards[id]
	return card, ok
}

// Cards returns every card in insertion order.
func (e *Engine) Cards() []Card {
	out := make([]Card, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.cards[id])
	}
	return out
}

// MasteredIDs returns the mastered ids, sorted for stable output.
func (e *Engine) MasteredIDs() []string {
	out := make([]string, 0, len(e.mastered))
	for id := range e.mastered {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SequenceIDs returns a copy of the active session order.
func (e *Engine) SequenceIDs() []string {
	return e.seq.IDs()
}

// Due returns the cards due on or before today, mastered cards excluded,
// in due-date order with insertion-order ties.
func (e *Engine) Due(today Date) []Card {
	return CollectDue(e.Cards(), today)
}

// HandleAction applies a review outcome to the named card: the scheduler
// updates its learning state, the reporting counters advance, and the
// session sequence moves the card accordingly. On error the engine is
// unchanged.
func (e *Engine) HandleAction(id string, outcome Outcome, today Date) (Result, error) {
	card, ok := e.cards[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	updated, err := e.scheduler.Apply(card, outcome, today)
	if err != nil {
		return Result{}, err
	}

	updated.ReviewCount++
	switch outcome {
	case OutcomeRecognized:
		updated.CorrectCount++
		updated.LearningStep++
	case OutcomeForgotten:
		updated.WrongCount++
		updated.LearningStep = 0
	}

	e.cards[id] = updated
	if updated.Mastered {
		e.mastered[id] = struct{}{}
	}

	switch outcome {
	case OutcomeRecognized:
		e.seq.OnRecognized(id, updated.Mastered)
	case OutcomeForgotten:
		e.seq.OnForgotten(id)
	}

	return e.State(), nil
}

// State reports the current session without mutating it.
func (e *Engine) State() Result {
	res := Result{
		TotalMastered:  len(e.mastered),
		RemainingItems: e.seq.Len(),
		TotalItems:     len(e.cards),
	}

	if id, ok := e.seq.Next(); ok {
		if card, found := e.cards[id]; found {
			res.NextItem = &ItemView{
				ID:       card.ID,
				Question: card.Question,
				Answer:   card.Answer,
			}
		}
	}

	return res
}

// Export returns the full reporting payload: every card's state, the
// mastered set, and the session order.
func (e *Engine) Export() *ExportData {
	items := make(map[string]Card, len(e.cards))
	for id, card := range e.cards {
		items[id] = card
	}
	return &ExportData{
		Items:          items,
		MasteredItems:  e.MasteredIDs(),
		TotalItems:     len(e.cards),
		ReviewSequence: e.seq.IDs(),
	}
}

// ResetSession rebuilds the session sequence from the cards due today,
// leaving learning state untouched.
func (e *Engine) ResetSession(today Date) {
	e.seq = e.newSequencer(e.dueIDs(today))
}

// Clone returns a deep copy sharing only the random source, so a caller can
// mutate the copy and swap it in on success, or discard it on failure.
func (e *Engine) Clone() *Engine {
	cards := make(map[string]Card, len(e.cards))
	for id, card := range e.cards {
		cards[id] = card
	}

	order := make([]string, len(e.order))
	copy(order, e.order)

	mastered := make(map[string]struct{}, len(e.mastered))
	for id := range e.mastered {
		mastered[id] = struct{}{}
	}

	return &Engine{
		name:      e.name,
		cfg:       e.cfg,
		scheduler: e.scheduler,
		cards:     cards,
		order:     order,
		mastered:  mastered,
		seq:       e.seq.clone(),
	}
}

func (e *Engine) newSequencer(ids []string) *Sequencer {
	return NewSequencer(ids, SequencerConfig{
		ReinsertMin: e.cfg.ReinsertMin,
		ReinsertMax: e.cfg.ReinsertMax,
		Rand:        e.cfg.Rand,
	})
}

func (e *Engine) dueIDs(today Date) []string {
	due := e.Due(today)
	ids := make([]string, 0, len(due))
	for _, card := range due {
		ids = append(ids, card.ID)
	}
	return ids
}
