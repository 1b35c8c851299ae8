// internal/game/engine.go
//
// Core game engine for a single Yahtzee session.
// Responsibilities:
//   - Own one round (dice, holds, roll counter) and one scorecard.
//   - Gate every move on the turn state: rolls left, dice rolled this turn,
//     game not finished.
//   - End the turn (clear holds, reset roll counter) after an accepted score
//     or a scratch.
//
// Notes:
//   - Illegal moves are reported as false/unaccepted results and never change
//     state. Errors are reserved for malformed input (bad category, bad die index).
//   - A Session is not safe for concurrent use; the store serializes access.
package game

import (
	"github.com/google/uuid"

	"github.com/robalobadob/yahtzee/internal/dice"
	"github.com/robalobadob/yahtzee/internal/scorecard"
)

// SourceFunc creates the dice source for a new game of the session.
type SourceFunc func() dice.Source

// Session is one player's game.
type Session struct {
	ID   string
	Mode Mode

	newSource SourceFunc
	round     *dice.Round
	book      *scorecard.Book
}

// New constructs a session with an empty scorecard and unrolled dice.
// newSource is called once per game (here and on every NewGame).
func New(mode Mode, newSource SourceFunc) *Session {
	if mode == "" {
		mode = ModeNormal
	}
	return &Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		newSource: newSource,
		round:     dice.NewRound(newSource()),
		book:      scorecard.NewBook(),
	}
}

// NewGame clears every category and returns the round to its initial state.
func (s *Session) NewGame() {
	s.book.Reset()
	s.round = dice.NewRound(s.newSource())
}

// Roll re-rolls the unheld dice. It reports false when the turn has no rolls
// left or the game is over.
func (s *Session) Roll() bool {
	if s.Finished() {
		return false
	}
	return s.round.Roll()
}

// ToggleHold flips the hold flag of die i (0-based). Holding is refused
// before the turn's first roll and after the game is over.
func (s *Session) ToggleHold(i int) (bool, error) {
	if s.Finished() {
		if i < 0 || i >= dice.NumDice {
			return false, dice.ErrDieIndex
		}
		return false, nil
	}
	return s.round.ToggleHold(i)
}

// ResetTurn clears holds and the roll counter; dice keep their faces.
func (s *Session) ResetTurn() { s.round.ResetTurn() }

// CurrentDiceValues returns the dice as of the most recent roll.
func (s *Session) CurrentDiceValues() [dice.NumDice]int { return s.round.Values() }

// EligibleCategories lists the open categories the current dice satisfy.
// Nothing is eligible before the turn's first roll. It never mutates state.
func (s *Session) EligibleCategories() []scorecard.Category {
	if !s.canScore() {
		return nil
	}
	values := s.round.Values()
	out, err := s.book.EligibleCategories(values[:])
	if err != nil {
		// rolled dice are always in range
		return nil
	}
	return out
}

// SubmitScore records category c for the current dice and ends the turn on
// success. It is refused before the turn's first roll, after the game is
// over, for filled slots and when the dice do not satisfy c.
func (s *Session) SubmitScore(c scorecard.Category) (scorecard.SubmitResult, error) {
	if !c.Valid() {
		return scorecard.SubmitResult{}, scorecard.ErrUnknownCategory
	}
	if !s.canScore() {
		return scorecard.SubmitResult{}, nil
	}
	values := s.round.Values()
	res, err := s.book.Submit(c, values[:])
	if err != nil {
		return scorecard.SubmitResult{}, err
	}
	if res.Accepted {
		s.round.ResetTurn()
	}
	return res, nil
}

// SetScratchMode arms or disarms scratching for the next category choice.
func (s *Session) SetScratchMode(on bool) { s.book.SetScratchMode(on) }

// Scratch forfeits category c while scratch mode is armed and ends the turn.
func (s *Session) Scratch(c scorecard.Category) (bool, error) {
	if s.Finished() {
		if !c.Valid() {
			return false, scorecard.ErrUnknownCategory
		}
		return false, nil
	}
	ok, err := s.book.Scratch(c)
	if err != nil || !ok {
		return false, err
	}
	s.round.ResetTurn()
	return true, nil
}

// Totals returns upper/lower/grand totals; undefined ones are nil.
func (s *Session) Totals() scorecard.Totals { return s.book.Totals() }

// Finished reports whether all thirteen categories are filled.
func (s *Session) Finished() bool { return s.book.Full() }

func (s *Session) canScore() bool {
	return !s.Finished() && s.round.Rolled()
}

// State builds a snapshot for the UI.
func (s *Session) State() State {
	st := State{
		ID:          s.ID,
		Mode:        s.Mode,
		RollsTaken:  s.round.RollsTaken(),
		RollsLeft:   s.round.RollsLeft(),
		ScratchMode: s.book.ScratchMode(),
		Totals:      s.book.Totals(),
		Finished:    s.Finished(),
		Dice:        make([]DieState, 0, dice.NumDice),
		Slots:       make([]SlotState, 0, len(scorecard.All())),
		Eligible:    []Option{},
	}
	if st.Finished {
		st.RollsLeft = 0
	}
	for _, d := range s.round.Dice() {
		st.Dice = append(st.Dice, DieState{Value: d.Value, Held: d.Held})
	}
	for _, c := range scorecard.All() {
		slot := s.book.Slot(c)
		row := SlotState{Category: c, Status: slot.Status}
		if slot.Status == scorecard.SlotScored {
			v := slot.Value
			row.Value = &v
		}
		st.Slots = append(st.Slots, row)
	}
	values := s.round.Values()
	for _, c := range s.EligibleCategories() {
		st.Eligible = append(st.Eligible, Option{Category: c, Score: scorecard.Score(c, values[:])})
	}
	return st
}
