package scorecard

const (
	UpperBonusThreshold = 63
	UpperBonus          = 35
)

// Totals are the derived sums of a scorecard. A nil field is undefined:
// some contributing slot is still open.
type Totals struct {
	Upper *int `json:"upper,omitempty"`
	Lower *int `json:"lower,omitempty"`
	Grand *int `json:"grand,omitempty"`
}

// computeTotals derives Totals from the slot array. Scratched slots count as
// zero but do fill their section.
func computeTotals(slots [numCategories]Slot) Totals {
	var t Totals
	if upper, ok := sectionSum(slots[Ones : Sixes+1]); ok {
		if upper >= UpperBonusThreshold {
			upper += UpperBonus
		}
		t.Upper = &upper
	}
	if lower, ok := sectionSum(slots[ThreeOfAKind : Chance+1]); ok {
		t.Lower = &lower
	}
	if t.Upper != nil && t.Lower != nil {
		grand := *t.Upper + *t.Lower
		t.Grand = &grand
	}
	return t
}

func sectionSum(slots []Slot) (int, bool) {
	total := 0
	for _, s := range slots {
		if s.Open() {
			return 0, false
		}
		total += s.Points()
	}
	return total, true
}

func (t Totals) clone() Totals {
	return Totals{Upper: copyInt(t.Upper), Lower: copyInt(t.Lower), Grand: copyInt(t.Grand)}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
