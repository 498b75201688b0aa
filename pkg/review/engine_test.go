package review_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quizfolkco/rote/pkg/review"
)

var _ = Describe("Engine", func() {
	var today review.Date

	BeforeEach(func() {
		today = review.NewDate(2026, time.June, 1)
	})

	freshEngine := func() *review.Engine {
		cards := []review.Card{
			review.NewCard("a", "q-a", "ans-a", today),
			review.NewCard("b", "q-b", "ans-b", today),
			review.NewCard("c", "q-c", "ans-c", today),
		}
		return review.NewEngine("demo", cards, today, review.EngineConfig{})
	}

	Describe("construction", func() {
		It("repairs out-of-range card state", func() {
			cards := []review.Card{{ID: "x", Question: "q", Answer: "a", Interval: 0, Ease: 0.5}}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{})

			card, ok := e.Card("x")
			Expect(ok).To(BeTrue())
			Expect(card.Interval).To(Equal(1))
			Expect(card.Ease).To(Equal(review.DefaultMinEase))
			Expect(card.Due).To(Equal(today))
		})

		It("collapses duplicate ids", func() {
			cards := []review.Card{
				review.NewCard("dup", "first", "one", today),
				review.NewCard("dup", "second", "two", today),
			}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{})

			Expect(e.Len()).To(Equal(1))
			card, _ := e.Card("dup")
			Expect(card.Question).To(Equal("first"))
		})

		It("keeps mastered cards out of the session", func() {
			cards := []review.Card{
				review.NewCard("a", "q", "ans", today),
				{ID: "done", Question: "q", Answer: "ans", Interval: 30, Ease: 3.5, Due: today, Mastered: true},
			}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{})

			Expect(e.MasteredCount()).To(Equal(1))
			Expect(e.SequenceIDs()).To(Equal([]string{"a"}))
			Expect(e.MasteredIDs()).To(Equal([]string{"done"}))
		})

		It("seeds the session with today's due queue", func() {
			cards := []review.Card{
				review.NewCard("a", "q", "ans", today),
				{ID: "future", Question: "q", Answer: "ans", Interval: 5, Ease: 2.5, Due: today.AddDays(5)},
				{ID: "overdue", Question: "q", Answer: "ans", Interval: 1, Ease: 2.5, Due: today.AddDays(-2)},
			}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{})

			Expect(e.SequenceIDs()).To(Equal([]string{"overdue", "a"}))
			Expect(e.Len()).To(Equal(3))
		})
	})

	Describe("State", func() {
		It("reports the head of the session without consuming it", func() {
			e := freshEngine()

			res := e.State()
			Expect(res.NextItem).NotTo(BeNil())
			Expect(res.NextItem.ID).To(Equal("a"))
			Expect(res.NextItem.Question).To(Equal("q-a"))
			Expect(res.TotalItems).To(Equal(3))
			Expect(res.RemainingItems).To(Equal(3))
			Expect(res.TotalMastered).To(BeZero())

			Expect(e.State().NextItem.ID).To(Equal("a"))
		})

		It("reports no next item when nothing is due", func() {
			cards := []review.Card{
				{ID: "future", Question: "q", Answer: "ans", Interval: 5, Ease: 2.5, Due: today.AddDays(5)},
			}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{})

			res := e.State()
			Expect(res.NextItem).To(BeNil())
			Expect(res.TotalItems).To(Equal(1))
			Expect(res.RemainingItems).To(BeZero())
		})
	})

	Describe("HandleAction", func() {
		It("advances the reporting counters on a recognized card", func() {
			e := freshEngine()

			res, err := e.HandleAction("a", review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TotalItems).To(Equal(3))
			Expect(res.RemainingItems).To(Equal(3))

			card, _ := e.Card("a")
			Expect(card.ReviewCount).To(Equal(1))
			Expect(card.CorrectCount).To(Equal(1))
			Expect(card.WrongCount).To(BeZero())
			Expect(card.LearningStep).To(Equal(1))
		})

		It("moves a recognized card to the back of the session", func() {
			e := freshEngine()

			_, err := e.HandleAction("a", review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.SequenceIDs()).To(Equal([]string{"b", "c", "a"}))
		})

		It("counts a forgotten card and resets its learning step", func() {
			e := freshEngine()

			_, err := e.HandleAction("a", review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.HandleAction("a", review.OutcomeForgotten, today)
			Expect(err).NotTo(HaveOccurred())

			card, _ := e.Card("a")
			Expect(card.ReviewCount).To(Equal(2))
			Expect(card.CorrectCount).To(Equal(1))
			Expect(card.WrongCount).To(Equal(1))
			Expect(card.LearningStep).To(BeZero())
		})

		It("pushes a forgotten card back into the current pass", func() {
			cards := make([]review.Card, 0, 4)
			for _, id := range []string{"a", "b", "c", "d"} {
				cards = append(cards, review.NewCard(id, "q-"+id, "ans-"+id, today))
			}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{
				ReinsertMin: 2,
				ReinsertMax: 2,
			})

			_, err := e.HandleAction("a", review.OutcomeForgotten, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.SequenceIDs()).To(Equal([]string{"b", "c", "a", "d"}))
		})

		It("retires a card the moment it masters", func() {
			cards := []review.Card{
				{ID: "hot", Question: "q", Answer: "ans", Interval: 30, Ease: 3.5, ConsecutiveCorrect: 7, Due: today},
				review.NewCard("cold", "q", "ans", today),
			}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{})

			res, err := e.HandleAction("hot", review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TotalMastered).To(Equal(1))
			Expect(res.RemainingItems).To(Equal(1))

			Expect(e.SequenceIDs()).To(Equal([]string{"cold"}))
			Expect(e.MasteredIDs()).To(Equal([]string{"hot"}))

			due := e.Due(today.AddDays(400))
			Expect(due).To(HaveLen(1))
			Expect(due[0].ID).To(Equal("cold"))
		})

		It("rejects an unknown item", func() {
			e := freshEngine()

			_, err := e.HandleAction("ghost", review.OutcomeRecognized, today)
			Expect(err).To(MatchError(review.ErrItemNotFound))
		})

		It("rejects an invalid outcome and leaves the card untouched", func() {
			e := freshEngine()

			_, err := e.HandleAction("a", review.Outcome(99), today)
			Expect(err).To(MatchError(review.ErrInvalidOutcome))

			card, _ := e.Card("a")
			Expect(card.ReviewCount).To(BeZero())
			Expect(e.SequenceIDs()).To(Equal([]string{"a", "b", "c"}))
		})
	})

	Describe("Clone", func() {
		It("isolates mutations from the original", func() {
			e := freshEngine()
			clone := e.Clone()

			_, err := clone.HandleAction("a", review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())

			original, _ := e.Card("a")
			Expect(original.ReviewCount).To(BeZero())
			Expect(e.SequenceIDs()).To(Equal([]string{"a", "b", "c"}))

			mutated, _ := clone.Card("a")
			Expect(mutated.ReviewCount).To(Equal(1))
		})
	})

	Describe("RestoreSequence", func() {
		It("drops unknown, mastered, and duplicate ids", func() {
			cards := []review.Card{
				review.NewCard("a", "q", "ans", today),
				review.NewCard("b", "q", "ans", today),
				{ID: "done", Question: "q", Answer: "ans", Interval: 30, Ease: 3.5, Due: today, Mastered: true},
			}
			e := review.NewEngine("demo", cards, today, review.EngineConfig{})

			e.RestoreSequence([]string{"b", "ghost", "done", "a", "b"})
			Expect(e.SequenceIDs()).To(Equal([]string{"b", "a"}))
		})
	})

	Describe("Export", func() {
		It("reports every card, the mastered set, and the session order", func() {
			e := freshEngine()
			_, err := e.HandleAction("a", review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())

			data := e.Export()
			Expect(data.Items).To(HaveLen(3))
			Expect(data.TotalItems).To(Equal(3))
			Expect(data.ReviewSequence).To(Equal([]string{"b", "c", "a"}))
			Expect(data.MasteredItems).To(BeEmpty())
			Expect(data.Items["a"].ReviewCount).To(Equal(1))
		})

		It("hands out a copy of the card map", func() {
			e := freshEngine()

			data := e.Export()
			data.Items["a"] = review.Card{ID: "a", Question: "tampered"}

			card, _ := e.Card("a")
			Expect(card.Question).To(Equal("q-a"))
		})
	})

	Describe("ResetSession", func() {
		It("rebuilds the session from today's due queue", func() {
			e := freshEngine()

			_, err := e.HandleAction("a", review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.SequenceIDs()).To(Equal([]string{"b", "c", "a"}))

			e.ResetSession(today)
			Expect(e.SequenceIDs()).To(Equal([]string{"b", "c"}))

			card, _ := e.Card("a")
			Expect(card.ReviewCount).To(Equal(1))
		})
	})
})
