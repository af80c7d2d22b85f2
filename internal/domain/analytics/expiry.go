package analytics

import (
	"time"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// SoonDays — горизонт «скоро истекает» на дашборде.
const SoonDays = 5

// ExpiringWithin — строки с ref <= Expiry_Date <= ref+days.
// Без колонки Expiry_Date результат пуст; строки с неизвестной датой отбрасываются.
// Это фильтр, порядок входа сохраняется.
func ExpiringWithin(l pantry.Ledger, username string, days int, ref time.Time) []pantry.Row {
	if !l.Schema.Has(pantry.ColExpiryDate) {
		return []pantry.Row{}
	}
	deadline := ref.AddDate(0, 0, days)
	out := []pantry.Row{}
	for _, r := range l.ScopeUser(username) {
		if r.ExpiryDate.Within(ref, deadline) {
			out = append(out, r)
		}
	}
	return out
}

func countExpired(rows []pantry.Row, ref time.Time) int {
	n := 0
	for _, r := range rows {
		if r.ExpiryDate.Before(ref) {
			n++
		}
	}
	return n
}

func countWithin(rows []pantry.Row, ref time.Time, days int) int {
	deadline := ref.AddDate(0, 0, days)
	n := 0
	for _, r := range rows {
		if r.ExpiryDate.Within(ref, deadline) {
			n++
		}
	}
	return n
}

// Unexpired — строки с известной датой годности не раньше ref (для подсказок рецептов).
func Unexpired(rows []pantry.Row, ref time.Time) []pantry.Row {
	out := []pantry.Row{}
	for _, r := range rows {
		if r.ExpiryDate.Valid && !r.ExpiryDate.Time.Before(ref) {
			out = append(out, r)
		}
	}
	return out
}
