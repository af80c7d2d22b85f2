package analytics

import "fmt"

// Tier — ступень устойчивости. Ступень достигнута, только если превышены оба порога.
type Tier struct {
	Level    int     `json:"level"`
	Title    string  `json:"title"`
	MinCO2   float64 `json:"min_co2_kg"`
	MinMoney float64 `json:"min_money"`
}

// tiers отсортированы по убыванию уровня: берём первую подходящую.
var tiers = []Tier{
	{Level: 4, Title: "Sustainability Champion!", MinCO2: 200, MinMoney: 400},
	{Level: 3, Title: "Outstanding savings!", MinCO2: 100, MinMoney: 200},
	{Level: 2, Title: "Great impact!", MinCO2: 50, MinMoney: 100},
	{Level: 1, Title: "Good start!", MinCO2: 10, MinMoney: 20},
}

var baseTier = Tier{Level: 0, Title: "Getting Started"}

func TierFor(co2Saved, moneySaved float64) Tier {
	for _, t := range tiers {
		if co2Saved > t.MinCO2 && moneySaved > t.MinMoney {
			return t
		}
	}
	return baseTier
}

// Tiers — все ступени от высшей к базовой.
func Tiers() []Tier {
	out := make([]Tier, 0, len(tiers)+1)
	out = append(out, tiers...)
	return append(out, baseTier)
}

func (t Tier) String() string {
	if t.Level == 0 {
		return t.Title
	}
	return fmt.Sprintf("Level %d: %s", t.Level, t.Title)
}
