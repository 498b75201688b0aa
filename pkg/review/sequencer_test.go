package review_test

import (
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quizfolkco/rote/pkg/review"
)

func sequenceIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("card-%02d", i))
	}
	return ids
}

var _ = Describe("Sequencer", func() {
	Describe("construction", func() {
		It("collapses duplicate ids to their first occurrence", func() {
			seq := review.NewSequencer([]string{"a", "b", "a", "c", "b"}, review.SequencerConfig{})
			Expect(seq.IDs()).To(Equal([]string{"a", "b", "c"}))
		})

		It("hands out copies of the sequence", func() {
			seq := review.NewSequencer([]string{"a", "b"}, review.SequencerConfig{})
			ids := seq.IDs()
			ids[0] = "mutated"
			Expect(seq.IDs()).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("Next", func() {
		It("peeks at the head without consuming it", func() {
			seq := review.NewSequencer([]string{"a", "b"}, review.SequencerConfig{})

			id, ok := seq.Next()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal("a"))

			id, ok = seq.Next()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal("a"))
			Expect(seq.Len()).To(Equal(2))
		})

		It("reports an exhausted session", func() {
			seq := review.NewSequencer(nil, review.SequencerConfig{})
			_, ok := seq.Next()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("OnRecognized", func() {
		It("moves the card to the back for the next pass", func() {
			seq := review.NewSequencer([]string{"a", "b", "c"}, review.SequencerConfig{})
			seq.OnRecognized("a", false)
			Expect(seq.IDs()).To(Equal([]string{"b", "c", "a"}))
		})

		It("drops a mastered card from the session", func() {
			seq := review.NewSequencer([]string{"a", "b", "c"}, review.SequencerConfig{})
			seq.OnRecognized("b", true)
			Expect(seq.IDs()).To(Equal([]string{"a", "c"}))
		})

		It("ignores ids that are not in the session", func() {
			seq := review.NewSequencer([]string{"a", "b"}, review.SequencerConfig{})
			seq.OnRecognized("ghost", false)
			Expect(seq.IDs()).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("OnForgotten", func() {
		It("reinserts a fixed distance ahead when the bounds pin it", func() {
			seq := review.NewSequencer(sequenceIDs(10), review.SequencerConfig{
				ReinsertMin: 2,
				ReinsertMax: 2,
			})

			seq.OnForgotten("card-00")
			Expect(seq.IDs()[2]).To(Equal("card-00"))
			Expect(seq.Len()).To(Equal(10))
		})

		It("measures the distance from the card's old position", func() {
			seq := review.NewSequencer(sequenceIDs(10), review.SequencerConfig{
				ReinsertMin: 3,
				ReinsertMax: 3,
			})

			seq.OnForgotten("card-04")
			Expect(seq.IDs()[7]).To(Equal("card-04"))
		})

		It("stays within the default reinsertion window", func() {
			rng := rand.New(rand.NewSource(11))

			for i := 0; i < 100; i++ {
				seq := review.NewSequencer(sequenceIDs(30), review.SequencerConfig{Rand: rng})
				seq.OnForgotten("card-00")

				pos := -1
				for j, id := range seq.IDs() {
					if id == "card-00" {
						pos = j
						break
					}
				}
				Expect(pos).To(BeNumerically(">=", review.DefaultReinsertMin))
				Expect(pos).To(BeNumerically("<=", review.DefaultReinsertMax))
			}
		})

		It("clamps the insertion point to the end of a short session", func() {
			seq := review.NewSequencer(sequenceIDs(5), review.SequencerConfig{
				Rand: rand.New(rand.NewSource(3)),
			})

			seq.OnForgotten("card-00")
			ids := seq.IDs()
			Expect(ids).To(HaveLen(5))
			Expect(ids[len(ids)-1]).To(Equal("card-00"))
		})

		It("keeps a lone card in place", func() {
			seq := review.NewSequencer([]string{"only"}, review.SequencerConfig{})
			seq.OnForgotten("only")
			Expect(seq.IDs()).To(Equal([]string{"only"}))
		})

		It("admits an id that was not in the session", func() {
			seq := review.NewSequencer([]string{"a", "b"}, review.SequencerConfig{
				Rand: rand.New(rand.NewSource(1)),
			})

			seq.OnForgotten("ghost")
			Expect(seq.Len()).To(Equal(3))
			Expect(seq.IDs()).To(ContainElement("ghost"))
		})

		It("never duplicates an id", func() {
			rng := rand.New(rand.NewSource(5))
			seq := review.NewSequencer(sequenceIDs(20), review.SequencerConfig{Rand: rng})

			for i := 0; i < 200; i++ {
				id, ok := seq.Next()
				Expect(ok).To(BeTrue())
				if rng.Intn(2) == 0 {
					seq.OnForgotten(id)
				} else {
					seq.OnRecognized(id, false)
				}

				seen := map[string]struct{}{}
				for _, got := range seq.IDs() {
					seen[got] = struct{}{}
				}
				Expect(seen).To(HaveLen(seq.Len()))
				Expect(seq.Len()).To(Equal(20))
			}
		})

		It("is reproducible with a seeded source", func() {
			run := func() []string {
				seq := review.NewSequencer(sequenceIDs(25), review.SequencerConfig{
					Rand: rand.New(rand.NewSource(42)),
				})
				for i := 0; i < 10; i++ {
					id, _ := seq.Next()
					seq.OnForgotten(id)
				}
				return seq.IDs()
			}

			Expect(run()).To(Equal(run()))
		})
	})

	Describe("Remove", func() {
		It("drops the id wherever it sits", func() {
			seq := review.NewSequencer([]string{"a", "b", "c"}, review.SequencerConfig{})
			Expect(seq.Remove("b")).To(BeTrue())
			Expect(seq.IDs()).To(Equal([]string{"a", "c"}))
		})

		It("reports a missing id", func() {
			seq := review.NewSequencer([]string{"a"}, review.SequencerConfig{})
			Expect(seq.Remove("ghost")).To(BeFalse())
		})
	})
})
