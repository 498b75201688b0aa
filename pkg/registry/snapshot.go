package registry

import (
	"sort"

	"github.com/quizfolkco/rote/pkg/kb"
	"github.com/quizfolkco/rote/pkg/review"
	"github.com/quizfolkco/rote/pkg/storage"
)

// snapshotOf serializes an engine's full state into a storage snapshot.
func snapshotOf(e *review.Engine) *storage.Snapshot {
	snap := storage.New()
	for _, card := range e.Cards() {
		snap.Items[card.ID] = storage.ItemSnapshot{
			Interval:           card.Interval,
			Ease:               card.Ease,
			ConsecutiveCorrect: card.ConsecutiveCorrect,
			Due:                card.Due,
			Mastered:           card.Mastered,
			WrongCount:         card.WrongCount,
			CorrectCount:       card.CorrectCount,
			ReviewCount:        card.ReviewCount,
			LearningStep:       card.LearningStep,
		}
	}
	snap.MasteredItems = e.MasteredIDs()
	snap.ReviewSequence = e.SequenceIDs()
	return snap
}

// stateCard copies persisted learning state onto a card.
func stateCard(card review.Card, state storage.ItemSnapshot) review.Card {
	card.Interval = state.Interval
	card.Ease = state.Ease
	card.ConsecutiveCorrect = state.ConsecutiveCorrect
	card.Due = state.Due
	card.Mastered = state.Mastered
	card.WrongCount = state.WrongCount
	card.CorrectCount = state.CorrectCount
	card.ReviewCount = state.ReviewCount
	card.LearningStep = state.LearningStep
	return card
}

// mergeCards builds an engine's card set from knowledge base items and an
// optional snapshot. Items keep knowledge base order; snapshot state is
// merged by id. Items new to the knowledge base start fresh, and snapshot
// entries whose id is no longer in the knowledge base are dropped.
func mergeCards(items []kb.Item, snap *storage.Snapshot, cfg review.Config, today review.Date) []review.Card {
	cfg = cfg.WithDefaults()

	cards := make([]review.Card, 0, len(items))
	for _, item := range items {
		card := review.NewCard(item.ID, item.Question, item.Answer, today)
		card.Ease = cfg.DefaultEase

		if snap != nil {
			if state, ok := snap.Items[item.ID]; ok {
				card = stateCard(card, state)
			}
		}

		cards = append(cards, card)
	}

	return cards
}

// cardsFromSnapshot reconstructs cards from a snapshot alone, for knowledge
// bases whose content file is gone but whose review state survives. Question
// and answer text is not part of the snapshot, so those fields stay empty.
// Ids are sorted for a deterministic insertion order.
func cardsFromSnapshot(snap *storage.Snapshot) []review.Card {
	ids := make([]string, 0, len(snap.Items))
	for id := range snap.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cards := make([]review.Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, stateCard(review.Card{ID: id}, snap.Items[id]))
	}
	return cards
}
