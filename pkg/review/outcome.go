package review

import (
	"encoding"
	"errors"
	"fmt"
)

// ErrInvalidOutcome is returned when a review action carries an outcome
// other than recognized or forgotten. The card is left untouched.
var ErrInvalidOutcome = errors.New("review: invalid outcome")

// ErrItemNotFound is returned when a review action names an id the engine
// does not hold.
var ErrItemNotFound = errors.New("review: item not found")

// Outcome is the caller-reported result of reviewing a card.
type Outcome int

const (
	// OutcomeRecognized reports that the learner recalled the card.
	OutcomeRecognized Outcome = iota + 1

	// OutcomeForgotten reports that the learner failed to recall the card.
	OutcomeForgotten
)

// IsValid reports whether o is one of the defined outcomes.
func (o Outcome) IsValid() bool {
	return o == OutcomeRecognized || o == OutcomeForgotten
}

func (o Outcome) String() string {
	switch o {
	case OutcomeRecognized:
		return "recognized"
	case OutcomeForgotten:
		return "forgotten"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseOutcome converts the wire form of an outcome into its value.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "recognized":
		return OutcomeRecognized, nil
	case "forgotten":
		return OutcomeForgotten, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

var (
	_ encoding.TextMarshaler   = Outcome(0)
	_ encoding.TextUnmarshaler = (*Outcome)(nil)
)
