package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// CO2Factor — кг CO2-экв. на кг продуктов.
const CO2Factor = 2.5

// TopN — размер топа выброшенного/использованного.
const TopN = 5

type Summary struct {
	User              string      `json:"user"`
	UniqueProducts    int         `json:"unique_products"`
	LastEntry         pantry.Date `json:"last_entry"`
	ExpiredCount      int         `json:"expired_items"`
	ExpiringSoonCount int         `json:"expiring_soon_items"`
	CO2EmittedKg      float64     `json:"co2_emitted_kg"`
	CO2SavedKg        float64     `json:"co2_saved_kg"`
	MoneyWasted       float64     `json:"money_wasted"`
	MoneySaved        float64     `json:"money_saved"`
}

// LastShopping — дата последней записи в виде "May 25, 2025" или "" если неизвестна.
func (s Summary) LastShopping() string {
	if !s.LastEntry.Valid {
		return ""
	}
	return s.LastEntry.Time.Format("January 02, 2006")
}

// Rounded — копия для показа: CO2 и деньги округлены до 2 знаков.
// Внутренние расчёты (тиры) используют полную точность.
func (s Summary) Rounded() Summary {
	s.CO2EmittedKg = round2(s.CO2EmittedKg)
	s.CO2SavedKg = round2(s.CO2SavedKg)
	s.MoneyWasted = round2(s.MoneyWasted)
	s.MoneySaved = round2(s.MoneySaved)
	return s
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Aggregate считает метрики устойчивости пользователя на дату ref.
// factor <= 0 заменяется на CO2Factor.
func Aggregate(l pantry.Ledger, username string, ref time.Time, factor float64) Summary {
	if factor <= 0 {
		factor = CO2Factor
	}
	rows := l.ForUser(username)
	p := Classify(rows, ref)

	var wasteMass, usedMass, moneyWasted, moneySaved float64
	for _, r := range p.Wasted {
		wasteMass += r.Mass()
		moneyWasted += r.Value()
	}
	for _, r := range p.Used {
		usedMass += r.Mass()
		moneySaved += r.Value()
	}

	foods := map[string]struct{}{}
	var last pantry.Date
	for _, r := range rows {
		foods[r.FoodName] = struct{}{}
		if r.DateOfEntry.Valid && (!last.Valid || r.DateOfEntry.Time.After(last.Time)) {
			last = r.DateOfEntry
		}
	}

	return Summary{
		User:              username,
		UniqueProducts:    len(foods),
		LastEntry:         last,
		ExpiredCount:      countExpired(rows, ref),
		ExpiringSoonCount: countWithin(rows, ref, SoonDays),
		CO2EmittedKg:      wasteMass / 1000 * factor,
		CO2SavedKg:        usedMass / 1000 * factor,
		MoneyWasted:       moneyWasted,
		MoneySaved:        moneySaved,
	}
}

type Mode string

const (
	ModeWaste Mode = "waste"
	ModeUsed  Mode = "used"
)

// ParseMode: всё, кроме "waste", трактуется как "used".
func ParseMode(s string) Mode {
	if Mode(s) == ModeWaste {
		return ModeWaste
	}
	return ModeUsed
}

type ItemTotal struct {
	FoodName string  `json:"food_name"`
	Quantity float64 `json:"quantity"`
}

// TopItems — до 5 продуктов с наибольшим суммарным количеством среди
// выброшенных (ModeWaste) или использованных строк. При равенстве — порядок появления.
func TopItems(l pantry.Ledger, username string, mode Mode, ref time.Time) []ItemTotal {
	p := Classify(l.ForUser(username), ref)
	rows := p.Used
	if mode == ModeWaste {
		rows = p.Wasted
	}
	return topBy(rows, TopN, func(r pantry.Row) (string, float64) { return r.FoodName, r.Quantity })
}

// topBy группирует по ключу в порядке появления и оставляет limit наибольших (стабильно).
func topBy(rows []pantry.Row, limit int, f func(pantry.Row) (string, float64)) []ItemTotal {
	idx := map[string]int{}
	out := []ItemTotal{}
	for _, r := range rows {
		k, v := f(r)
		i, ok := idx[k]
		if !ok {
			idx[k] = len(out)
			out = append(out, ItemTotal{FoodName: k})
			i = len(out) - 1
		}
		out[i].Quantity += v
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
