// internal/dice/round.go
//
// Round engine for a single turn of play.
// Responsibilities:
//   - Own the five dice (face value + hold flag) for the lifetime of a game.
//   - Re-roll every unheld die, at most MaxRolls times per turn.
//   - Clear holds and the roll counter between turns.
//
// Notes:
//   - A face value of 0 means the die has never been rolled.
//   - Exceeding the roll limit or holding before the first roll of a turn is a
//     policy outcome (reported as false), never an error.
package dice

import "errors"

const (
	NumDice  = 5 // dice in play
	MaxRolls = 3 // rolls allowed per turn
	Faces    = 6 // sides per die
)

// ErrDieIndex is returned when a die index is outside [0, NumDice).
var ErrDieIndex = errors.New("die index out of range")

// Die is a single die on the table.
type Die struct {
	Value int  // 1..6, or 0 before the first roll of the game
	Held  bool // held dice are skipped by Roll
}

// Round holds the dice and roll counter for the current turn.
type Round struct {
	dice  [NumDice]Die
	rolls int
	src   Source
}

// NewRound returns a round with unrolled dice drawing from src.
func NewRound(src Source) *Round {
	return &Round{src: src}
}

// Roll assigns a fresh face value to every unheld die and counts the roll.
// It reports false and changes nothing once MaxRolls rolls have been taken.
func (r *Round) Roll() bool {
	if r.rolls >= MaxRolls {
		return false
	}
	for i := range r.dice {
		if !r.dice[i].Held {
			r.dice[i].Value = r.src.IntN(Faces) + 1
		}
	}
	r.rolls++
	return true
}

// ToggleHold flips the hold flag of die i.
// Holding is refused (false, nil) until the turn's first roll has happened.
func (r *Round) ToggleHold(i int) (bool, error) {
	if i < 0 || i >= NumDice {
		return false, ErrDieIndex
	}
	if r.rolls == 0 {
		return false, nil
	}
	r.dice[i].Held = !r.dice[i].Held
	return true, nil
}

// ResetTurn clears all holds and the roll counter. Face values stay visible
// until the next roll.
func (r *Round) ResetTurn() {
	for i := range r.dice {
		r.dice[i].Held = false
	}
	r.rolls = 0
}

// Values returns the face values as of the most recent roll.
func (r *Round) Values() [NumDice]int {
	var out [NumDice]int
	for i, d := range r.dice {
		out[i] = d.Value
	}
	return out
}

// Dice returns a copy of the dice.
func (r *Round) Dice() [NumDice]Die { return r.dice }

// RollsTaken is the number of rolls made this turn.
func (r *Round) RollsTaken() int { return r.rolls }

// RollsLeft is the number of rolls still available this turn.
func (r *Round) RollsLeft() int { return MaxRolls - r.rolls }

// Rolled reports whether the dice have been rolled at least once this turn.
func (r *Round) Rolled() bool { return r.rolls > 0 }
