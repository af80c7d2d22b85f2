package analytics

import (
	"math"
	"time"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// UsageWindowDays — окно, по которому считается средний дневной расход.
const UsageWindowDays = 30

type Recommendation struct {
	FoodName string `json:"food_name"`
	Brand    string `json:"brand"`
	Unit     string `json:"unit"`
	Quantity int    `json:"recommended_quantity"`
}

type groupKey struct {
	food, brand, unit string
}

// Recommend: сумма Quantity за последние 30 дней по (продукт, бренд, единица),
// дневной расход = сумма/30, рекомендация = round(расход*daysAhead).
// Округление банковское (половина к чётному). Группы с результатом <= 0 отбрасываются.
// Порядок — по первому появлению группы во входе.
func Recommend(l pantry.Ledger, username string, daysAhead int, ref time.Time) []Recommendation {
	out := []Recommendation{}
	if !l.Schema.Has(pantry.ColDateOfEntry) {
		return out
	}
	since := ref.AddDate(0, 0, -UsageWindowDays)

	totals := map[groupKey]float64{}
	var order []groupKey
	for _, r := range l.ScopeUser(username) {
		if !r.DateOfEntry.Valid || r.DateOfEntry.Time.Before(since) {
			continue
		}
		k := groupKey{r.FoodName, r.Brand, r.QUnit}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += r.Quantity
	}

	for _, k := range order {
		daily := totals[k] / UsageWindowDays
		qty := math.RoundToEven(daily * float64(daysAhead))
		if qty <= 0 || math.IsNaN(qty) {
			continue
		}
		qty = math.Min(qty, math.MaxInt32)
		out = append(out, Recommendation{FoodName: k.food, Brand: k.brand, Unit: k.unit, Quantity: int(qty)})
	}
	return out
}

// Purchase превращает рекомендацию в строку для дозаписи с автозаполнением из истории пользователя.
func (rec Recommendation) Purchase(l pantry.Ledger, username string, shopDate time.Time) pantry.Purchase {
	prefill, _ := l.Prefill(username, rec.FoodName, rec.Brand)
	return pantry.NewPurchase(username, rec.FoodName, rec.Brand, rec.Unit, float64(rec.Quantity), prefill, shopDate)
}
