// internal/game/types.go
//
// Core type definitions for a Yahtzee game session.
// Defines:
//   - Mode: how the session's dice are seeded (normal/daily).
//   - State: a read-only snapshot of a session for the UI layer.

package game

import (
	"github.com/robalobadob/yahtzee/internal/scorecard"
)

// Mode selects how a session's dice are seeded.
//   - "normal": auto-seeded random dice.
//   - "daily":  seeded from today's date, identical for every player.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// DieState is one die as shown to the player.
type DieState struct {
	Value int  `json:"value"` // 0 until the first roll of the game
	Held  bool `json:"held"`
}

// SlotState is one scorecard row.
type SlotState struct {
	Category scorecard.Category   `json:"category"`
	Status   scorecard.SlotStatus `json:"status"`
	Value    *int                 `json:"value,omitempty"` // set only when scored
}

// Option is an eligible category together with the score it would record.
type Option struct {
	Category scorecard.Category `json:"category"`
	Score    int                `json:"score"`
}

// State is a snapshot of a session.
type State struct {
	ID          string           `json:"id"`
	Mode        Mode             `json:"mode"`
	Dice        []DieState       `json:"dice"`
	RollsTaken  int              `json:"rollsTaken"`
	RollsLeft   int              `json:"rollsLeft"`
	ScratchMode bool             `json:"scratchMode"`
	Slots       []SlotState      `json:"slots"`
	Eligible    []Option         `json:"eligible"`
	Totals      scorecard.Totals `json:"totals"`
	Finished    bool             `json:"finished"`
}
