package analytics

import (
	"sort"
	"time"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// BreakdownDays — горизонт для разбивки истекающих продуктов по типу.
const BreakdownDays = 7

// ImpactTopN — сколько продуктов показывать в рейтинге по CO2.
const ImpactTopN = 10

type TypeCount struct {
	FoodType string `json:"food_type"`
	Count    int    `json:"count"`
}

type DayTotal struct {
	Day      time.Time `json:"day"`
	Quantity float64   `json:"quantity"`
}

type Impact struct {
	FoodName string  `json:"food_name"`
	CO2Kg    float64 `json:"co2_kg"`
}

// ExpiryBreakdownByType — число просроченных или истекающих в течение 7 дней строк по Food_Type.
func ExpiryBreakdownByType(l pantry.Ledger, username string, ref time.Time) []TypeCount {
	if !l.Schema.Has(pantry.ColFoodType) {
		return []TypeCount{}
	}
	deadline := ref.AddDate(0, 0, BreakdownDays)
	var types []string
	for _, r := range l.ForUser(username) {
		if r.ExpiryDate.Before(ref) || r.ExpiryDate.Within(ref, deadline) {
			types = append(types, r.FoodType)
		}
	}
	return countTypes(types)
}

// TypeBreakdown — распределение рекомендаций по Food_Type (сопоставление по продукту и бренду).
// Рекомендация без известного типа не учитывается; несколько типов у одной пары учитываются все.
func TypeBreakdown(recs []Recommendation, l pantry.Ledger, username string) []TypeCount {
	type pair struct{ food, brand string }
	known := map[pair][]string{}
	seen := map[pair]map[string]bool{}
	for _, r := range l.ForUser(username) {
		k := pair{r.FoodName, r.Brand}
		if seen[k] == nil {
			seen[k] = map[string]bool{}
		}
		if seen[k][r.FoodType] {
			continue
		}
		seen[k][r.FoodType] = true
		known[k] = append(known[k], r.FoodType)
	}
	var types []string
	for _, rec := range recs {
		types = append(types, known[pair{rec.FoodName, rec.Brand}]...)
	}
	return countTypes(types)
}

func countTypes(types []string) []TypeCount {
	idx := map[string]int{}
	out := []TypeCount{}
	for _, t := range types {
		i, ok := idx[t]
		if !ok {
			idx[t] = len(out)
			out = append(out, TypeCount{FoodType: t})
			i = len(out) - 1
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// UsageTrend — сумма Quantity по дням Date_of_Entry в [from, to], по возрастанию дня.
func UsageTrend(l pantry.Ledger, username string, from, to time.Time) []DayTotal {
	from, to = Day(from), Day(to)
	totals := map[time.Time]float64{}
	for _, r := range l.ForUser(username) {
		if !r.DateOfEntry.Within(from, to) {
			continue
		}
		totals[Day(r.DateOfEntry.Time)] += r.Quantity
	}
	out := make([]DayTotal, 0, len(totals))
	for d, q := range totals {
		out = append(out, DayTotal{Day: d, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// CO2Impact — вклад каждого продукта пользователя в CO2 (все строки), топ-10 по убыванию.
func CO2Impact(l pantry.Ledger, username string, factor float64) []Impact {
	if factor <= 0 {
		factor = CO2Factor
	}
	totals := topBy(l.ForUser(username), ImpactTopN, func(r pantry.Row) (string, float64) {
		return r.FoodName, r.Mass() / 1000 * factor
	})
	out := make([]Impact, 0, len(totals))
	for _, t := range totals {
		out = append(out, Impact{FoodName: t.FoodName, CO2Kg: t.Quantity})
	}
	return out
}
