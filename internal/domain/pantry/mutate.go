package pantry

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Subtract возвращает новую версию строки; остаток не уходит в минус.
func (r Row) Subtract(qty float64) Row {
	r.Quantity = math.Max(0, r.Quantity-qty)
	return r
}

func (r Row) MarkTrashed() Row {
	r.Remarks = RemarkTrashed
	return r
}

// Replace — новый реестр, где строка с тем же ID заменена версией r.
// Исходный реестр не меняется.
func (l Ledger) Replace(r Row) Ledger {
	rows := make([]Row, len(l.Rows))
	copy(rows, l.Rows)
	for i := range rows {
		if rows[i].ID == r.ID {
			rows[i] = r
		}
	}
	return Ledger{Schema: l.Schema, Rows: rows}
}

// Apply накладывает локальные версии строк (например, из сессии чата).
func (l Ledger) Apply(versions map[uuid.UUID]Row) Ledger {
	if len(versions) == 0 {
		return l
	}
	rows := make([]Row, len(l.Rows))
	for i, r := range l.Rows {
		if v, ok := versions[r.ID]; ok {
			rows[i] = v
			continue
		}
		rows[i] = r
	}
	return Ledger{Schema: l.Schema, Rows: rows}
}

// Subtract списывает qty с первой строки пользователя с данным продуктом и брендом.
func (l Ledger) Subtract(username, foodName, brand string, qty float64, trashed bool) (Ledger, Row, error) {
	if qty < 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return l, Row{}, ErrInvalidQuantity
	}
	row, ok := l.Prefill(username, foodName, brand)
	if !ok {
		return l, Row{}, fmt.Errorf("%s / %s: %w", foodName, brand, ErrItemNotFound)
	}
	next := row.Subtract(qty)
	if trashed {
		next = next.MarkTrashed()
	}
	return l.Replace(next), next, nil
}

// Available — суммарный остаток и самая частая единица среди подходящих строк.
func (l Ledger) Available(username, foodName, brand string) (float64, string) {
	var total float64
	counts := map[string]int{}
	var order []string
	for _, r := range l.Rows {
		if r.Username != username || r.FoodName != foodName || r.Brand != brand {
			continue
		}
		total += r.Quantity
		if r.QUnit == "" {
			continue
		}
		if counts[r.QUnit] == 0 {
			order = append(order, r.QUnit)
		}
		counts[r.QUnit]++
	}
	unit, best := "unit", 0
	for _, u := range order {
		if counts[u] > best {
			unit, best = u, counts[u]
		}
	}
	return total, unit
}

// Foods — уникальные названия продуктов пользователя в порядке появления.
func (l Ledger) Foods(username string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range l.Rows {
		if r.Username != username || r.FoodName == "" || seen[r.FoodName] {
			continue
		}
		seen[r.FoodName] = true
		out = append(out, r.FoodName)
	}
	return out
}

// Brands — бренды продукта у пользователя в порядке появления.
func (l Ledger) Brands(username, foodName string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range l.Rows {
		if r.Username != username || r.FoodName != foodName || seen[r.Brand] {
			continue
		}
		seen[r.Brand] = true
		out = append(out, r.Brand)
	}
	return out
}
