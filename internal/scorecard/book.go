// internal/scorecard/book.go
//
// ScoreBook: the thirteen category slots plus derived totals.
// Responsibilities:
//   - Accept a score for an open category when the dice satisfy its rule.
//   - Scratch an open category while scratch mode is on (one scratch per toggle).
//   - Recompute totals after every slot change.
//
// A slot is written at most once per game. Rejected submissions and scratches
// leave the book untouched.

package scorecard

import "fmt"

// SlotStatus is the fill state of a category slot.
type SlotStatus int

const (
	SlotOpen SlotStatus = iota
	SlotScored
	SlotScratched
)

func (s SlotStatus) String() string {
	switch s {
	case SlotOpen:
		return "open"
	case SlotScored:
		return "scored"
	case SlotScratched:
		return "scratched"
	default:
		return fmt.Sprintf("SlotStatus(%d)", int(s))
	}
}

func (s SlotStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SlotStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "open":
		*s = SlotOpen
	case "scored":
		*s = SlotScored
	case "scratched":
		*s = SlotScratched
	default:
		return fmt.Errorf("unknown slot status %q", b)
	}
	return nil
}

// Slot is the value held by one category.
type Slot struct {
	Status SlotStatus
	Value  int // meaningful only when Status == SlotScored
}

// Open reports whether the slot can still be written.
func (s Slot) Open() bool { return s.Status == SlotOpen }

// Points is what the slot contributes to totals (0 unless scored).
func (s Slot) Points() int {
	if s.Status != SlotScored {
		return 0
	}
	return s.Value
}

// SubmitResult is the outcome of a score submission. Value is set only when
// Accepted is true.
type SubmitResult struct {
	Accepted bool `json:"accepted"`
	Value    int  `json:"value"`
}

// Book is one player's scorecard.
type Book struct {
	slots       [numCategories]Slot
	totals      Totals
	scratchMode bool
}

// NewBook returns an empty scorecard.
func NewBook() *Book { return &Book{} }

// Reset clears every slot, the totals and scratch mode.
func (b *Book) Reset() { *b = Book{} }

// Slot returns the current slot of category c.
func (b *Book) Slot(c Category) Slot {
	if !c.Valid() {
		return Slot{}
	}
	return b.slots[c]
}

// Eligible reports whether c is open and values satisfy its rule.
func (b *Book) Eligible(c Category, values []int) bool {
	return c.Valid() && b.slots[c].Open() && Eligible(c, values)
}

// EligibleCategories lists the open categories that would accept values,
// in scorecard order. It never mutates the book.
func (b *Book) EligibleCategories(values []int) ([]Category, error) {
	if err := ValidateDice(values); err != nil {
		return nil, err
	}
	var out []Category
	for _, c := range All() {
		if b.Eligible(c, values) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Submit records the score of c for values.
// A filled slot or a failed rule yields an unaccepted result with no change.
// Acceptance ends the turn, so it also switches scratch mode off.
func (b *Book) Submit(c Category, values []int) (SubmitResult, error) {
	if !c.Valid() {
		return SubmitResult{}, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	if err := ValidateDice(values); err != nil {
		return SubmitResult{}, err
	}
	if !b.Eligible(c, values) {
		return SubmitResult{}, nil
	}
	v := Score(c, values)
	b.slots[c] = Slot{Status: SlotScored, Value: v}
	b.scratchMode = false
	b.totals = computeTotals(b.slots)
	return SubmitResult{Accepted: true, Value: v}, nil
}

// SetScratchMode arms or disarms scratching for the next category choice.
func (b *Book) SetScratchMode(on bool) { b.scratchMode = on }

// ScratchMode reports whether the next Scratch call is armed.
func (b *Book) ScratchMode() bool { return b.scratchMode }

// Scratch forfeits category c, bypassing its rule. It requires scratch mode
// and an open slot; a successful scratch disarms scratch mode.
func (b *Book) Scratch(c Category) (bool, error) {
	if !c.Valid() {
		return false, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	if !b.scratchMode || !b.slots[c].Open() {
		return false, nil
	}
	b.slots[c] = Slot{Status: SlotScratched}
	b.scratchMode = false
	b.totals = computeTotals(b.slots)
	return true, nil
}

// Totals returns the totals as of the last slot change.
func (b *Book) Totals() Totals { return b.totals.clone() }

// Full reports whether every slot has been scored or scratched.
func (b *Book) Full() bool {
	for _, s := range b.slots {
		if s.Open() {
			return false
		}
	}
	return true
}
