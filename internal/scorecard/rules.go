// internal/scorecard/rules.go
//
// Validation and scoring rules per category.
// Every rule is a pure function of the five dice values.
//
// Kind rules use the highest count of any single face. Counting distinct
// values is not enough: {1,1,2,2,2} has two distinct values but no four of a
// kind.

package scorecard

import (
	"errors"
	"fmt"
)

const (
	HandSize = 5
	maxFace  = 6

	FullHouseScore     = 25
	SmallStraightScore = 30
	LargeStraightScore = 40
	YahtzeeScore       = 50
)

// ErrInvalidDice is returned when a hand is not five values in 1..6.
var ErrInvalidDice = errors.New("dice must be five values between 1 and 6")

// ValidateDice checks that values is a complete, rolled hand.
func ValidateDice(values []int) error {
	if len(values) != HandSize {
		return fmt.Errorf("%w: got %d values", ErrInvalidDice, len(values))
	}
	for _, v := range values {
		if v < 1 || v > maxFace {
			return fmt.Errorf("%w: got %d", ErrInvalidDice, v)
		}
	}
	return nil
}

// faceCounts tallies how many dice show each face (index 1..6).
func faceCounts(values []int) [maxFace + 1]int {
	var counts [maxFace + 1]int
	for _, v := range values {
		if v >= 1 && v <= maxFace {
			counts[v]++
		}
	}
	return counts
}

func maxCount(counts [maxFace + 1]int) int {
	m := 0
	for _, n := range counts[1:] {
		m = max(m, n)
	}
	return m
}

func distinct(counts [maxFace + 1]int) int {
	d := 0
	for _, n := range counts[1:] {
		if n > 0 {
			d++
		}
	}
	return d
}

// hasRun reports whether every face in [from, from+length) is present.
func hasRun(counts [maxFace + 1]int, from, length int) bool {
	for f := from; f < from+length; f++ {
		if counts[f] == 0 {
			return false
		}
	}
	return true
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// Eligible reports whether values satisfy the rule of category c.
// Upper categories and Chance accept any hand. Slot occupancy is not
// considered here; see Book.
func Eligible(c Category, values []int) bool {
	counts := faceCounts(values)
	switch c {
	case Ones, Twos, Threes, Fours, Fives, Sixes, Chance:
		return true
	case ThreeOfAKind:
		return maxCount(counts) >= 3
	case FourOfAKind:
		return maxCount(counts) >= 4
	case FullHouse:
		return distinct(counts) == 2 && maxCount(counts) == 3
	case SmallStraight:
		return hasRun(counts, 1, 4) || hasRun(counts, 2, 4) || hasRun(counts, 3, 4)
	case LargeStraight:
		return distinct(counts) == 5 && (hasRun(counts, 1, 5) || hasRun(counts, 2, 5))
	case Yahtzee:
		return maxCount(counts) == HandSize
	default:
		return false
	}
}

// Score returns the points category c awards for values. It does not check
// eligibility; callers use Eligible first.
func Score(c Category, values []int) int {
	if c.Upper() {
		return faceCounts(values)[c.Face()] * c.Face()
	}
	switch c {
	case ThreeOfAKind, FourOfAKind, Chance:
		return sum(values)
	case FullHouse:
		return FullHouseScore
	case SmallStraight:
		return SmallStraightScore
	case LargeStraight:
		return LargeStraightScore
	case Yahtzee:
		return YahtzeeScore
	default:
		return 0
	}
}
