package review_test

import (
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quizfolkco/rote/pkg/review"
)

var _ = Describe("Scheduler", func() {
	var (
		s     *review.Scheduler
		today review.Date
	)

	BeforeEach(func() {
		s = review.NewScheduler(review.Config{})
		today = review.NewDate(2026, time.June, 1)
	})

	Describe("recognized", func() {
		It("walks a fresh card through intervals 1, 3, 8", func() {
			card := review.NewCard("id", "q", "a", today)

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Interval).To(Equal(1))
			Expect(card.ConsecutiveCorrect).To(Equal(1))
			Expect(card.Due).To(Equal(today.AddDays(1)))

			card, err = s.Apply(card, review.OutcomeRecognized, card.Due)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Interval).To(Equal(3))
			Expect(card.ConsecutiveCorrect).To(Equal(2))

			card, err = s.Apply(card, review.OutcomeRecognized, card.Due)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Interval).To(Equal(8))
			Expect(card.ConsecutiveCorrect).To(Equal(3))
		})

		It("leaves easiness untouched", func() {
			card := review.Card{ID: "id", Interval: 3, Ease: 2.1, ConsecutiveCorrect: 2}

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Ease).To(Equal(2.1))
		})

		It("rounds the grown interval half away from zero", func() {
			card := review.Card{ID: "id", Interval: 3, Ease: 1.5, ConsecutiveCorrect: 2}

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Interval).To(Equal(5))
		})

		It("schedules the next due date interval days out", func() {
			card := review.Card{ID: "id", Interval: 3, Ease: 2.5, ConsecutiveCorrect: 2}

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Due).To(Equal(today.AddDays(8)))
		})

		It("caps the interval at the configured maximum", func() {
			card := review.Card{ID: "id", Interval: 200, Ease: 2.5, ConsecutiveCorrect: 3}

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Interval).To(Equal(review.DefaultMaxInterval))
			Expect(card.Due).To(Equal(today.AddDays(review.DefaultMaxInterval)))
		})

		It("honors a custom interval cap", func() {
			tight := review.NewScheduler(review.Config{MaxInterval: 10})
			card := review.Card{ID: "id", Interval: 5, Ease: 2.5, ConsecutiveCorrect: 3}

			card, err := tight.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Interval).To(Equal(10))
		})
	})

	Describe("forgotten", func() {
		It("resets the card to a one-day interval", func() {
			card := review.Card{ID: "id", Interval: 21, Ease: 2.5, ConsecutiveCorrect: 4}

			card, err := s.Apply(card, review.OutcomeForgotten, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Interval).To(Equal(1))
			Expect(card.ConsecutiveCorrect).To(BeZero())
			Expect(card.Due).To(Equal(today.AddDays(1)))
		})

		It("decays easiness by the blend rule", func() {
			card := review.Card{ID: "id", Interval: 1, Ease: 2.5}

			card, err := s.Apply(card, review.OutcomeForgotten, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Ease).To(BeNumerically("~", 2.392, 1e-9))
		})

		It("never drops easiness below the floor", func() {
			card := review.Card{ID: "id", Interval: 1, Ease: review.DefaultMinEase}

			for i := 0; i < 10; i++ {
				var err error
				card, err = s.Apply(card, review.OutcomeForgotten, today)
				Expect(err).NotTo(HaveOccurred())
				Expect(card.Ease).To(BeNumerically(">=", review.DefaultMinEase))
			}
			Expect(card.Ease).To(BeNumerically("~", review.DefaultMinEase, 1e-9))
		})

		It("does not revoke mastery", func() {
			card := review.Card{ID: "id", Interval: 30, Ease: 3.5, ConsecutiveCorrect: 9, Mastered: true}

			card, err := s.Apply(card, review.OutcomeForgotten, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Mastered).To(BeTrue())
		})
	})

	Describe("mastery", func() {
		It("masters when easiness and streak both exceed their bounds", func() {
			card := review.Card{ID: "id", Interval: 30, Ease: 3.01, ConsecutiveCorrect: 7}

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Mastered).To(BeTrue())
		})

		It("requires easiness strictly above the bound", func() {
			card := review.Card{ID: "id", Interval: 30, Ease: 3.0, ConsecutiveCorrect: 9}

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.ConsecutiveCorrect).To(Equal(10))
			Expect(card.Mastered).To(BeFalse())
		})

		It("requires a streak strictly above the bound", func() {
			card := review.Card{ID: "id", Interval: 30, Ease: 3.2, ConsecutiveCorrect: 6}

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.ConsecutiveCorrect).To(Equal(7))
			Expect(card.Mastered).To(BeFalse())

			card, err = s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Mastered).To(BeTrue())
		})

		It("does not master a moderate-ease card on early correct answers", func() {
			card := review.NewCard("id", "q", "a", today)

			card, err := s.Apply(card, review.OutcomeRecognized, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Mastered).To(BeFalse())

			card, err = s.Apply(card, review.OutcomeRecognized, card.Due)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.ConsecutiveCorrect).To(Equal(2))
			Expect(card.Mastered).To(BeFalse())
		})

		It("never masters on the forgotten path", func() {
			card := review.Card{ID: "id", Interval: 30, Ease: 5.0, ConsecutiveCorrect: 20}

			card, err := s.Apply(card, review.OutcomeForgotten, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.Mastered).To(BeFalse())
		})
	})

	Describe("invalid outcomes", func() {
		It("returns the card unchanged with ErrInvalidOutcome", func() {
			card := review.Card{ID: "id", Interval: 5, Ease: 2.2, ConsecutiveCorrect: 3}

			got, err := s.Apply(card, review.Outcome(42), today)
			Expect(err).To(MatchError(review.ErrInvalidOutcome))
			Expect(got).To(Equal(card))
		})
	})

	Describe("long random review histories", func() {
		It("keeps easiness and interval above their floors", func() {
			rng := rand.New(rand.NewSource(7))
			card := review.NewCard("id", "q", "a", today)
			day := today

			for i := 0; i < 500; i++ {
				outcome := review.OutcomeRecognized
				if rng.Intn(2) == 0 {
					outcome = review.OutcomeForgotten
				}

				var err error
				card, err = s.Apply(card, outcome, day)
				Expect(err).NotTo(HaveOccurred())
				Expect(card.Ease).To(BeNumerically(">=", review.DefaultMinEase))
				Expect(card.Interval).To(BeNumerically(">=", 1))
				Expect(card.Interval).To(BeNumerically("<=", review.DefaultMaxInterval))
				Expect(card.Due.After(day)).To(BeTrue())

				day = card.Due
			}
		})
	})
})

var _ = Describe("CollectDue", func() {
	today := review.NewDate(2026, time.June, 10)

	It("excludes mastered cards", func() {
		cards := []review.Card{
			{ID: "a", Due: today},
			{ID: "b", Due: today, Mastered: true},
		}

		due := review.CollectDue(cards, today)
		Expect(due).To(HaveLen(1))
		Expect(due[0].ID).To(Equal("a"))
	})

	It("excludes cards due in the future", func() {
		cards := []review.Card{
			{ID: "a", Due: today.AddDays(1)},
			{ID: "b", Due: today},
			{ID: "c", Due: today.AddDays(-3)},
		}

		due := review.CollectDue(cards, today)
		Expect(due).To(HaveLen(2))
		Expect(due[0].ID).To(Equal("c"))
		Expect(due[1].ID).To(Equal("b"))
	})

	It("includes cards due exactly today", func() {
		cards := []review.Card{{ID: "a", Due: today}}
		Expect(review.CollectDue(cards, today)).To(HaveLen(1))
	})

	It("orders ascending by due date with stable ties", func() {
		d1 := today.AddDays(-2)
		d2 := today.AddDays(-1)
		cards := []review.Card{
			{ID: "late", Due: d2},
			{ID: "first", Due: d1},
			{ID: "second", Due: d1},
		}

		due := review.CollectDue(cards, today)
		ids := make([]string, 0, len(due))
		for _, c := range due {
			ids = append(ids, c.ID)
		}
		Expect(ids).To(Equal([]string{"first", "second", "late"}))
	})

	It("returns an empty slice when nothing is due", func() {
		cards := []review.Card{{ID: "a", Due: today.AddDays(5)}}
		Expect(review.CollectDue(cards, today)).To(BeEmpty())
	})
})
