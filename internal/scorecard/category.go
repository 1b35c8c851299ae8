// internal/scorecard/category.go
//
// The thirteen scoring categories.
// Upper categories are keyed by face value (Ones..Sixes); lower categories
// are dice patterns. Categories serialize as snake_case names in JSON.

package scorecard

import (
	"errors"
	"fmt"
)

// Category identifies one scorecard slot.
type Category int

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeOfAKind
	FourOfAKind
	FullHouse
	SmallStraight
	LargeStraight
	Yahtzee
	Chance

	numCategories = int(Chance) + 1
)

// ErrUnknownCategory is returned for names or values that are not a category.
var ErrUnknownCategory = errors.New("unknown category")

var categoryNames = [numCategories]string{
	"ones", "twos", "threes", "fours", "fives", "sixes",
	"three_of_a_kind", "four_of_a_kind", "full_house",
	"small_straight", "large_straight", "yahtzee", "chance",
}

// All returns every category in scorecard order.
func All() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ParseCategory maps a snake_case name to its Category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Valid reports whether c is one of the thirteen categories.
func (c Category) Valid() bool { return c >= Ones && c <= Chance }

// Upper reports whether c belongs to the upper section.
func (c Category) Upper() bool { return c >= Ones && c <= Sixes }

// Face is the target face value of an upper category (0 for lower ones).
func (c Category) Face() int {
	if !c.Upper() {
		return 0
	}
	return int(c) + 1
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(categoryNames[c]), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
