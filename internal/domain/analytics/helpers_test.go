package analytics_test

import (
	"time"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

var ref = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

func day(offset int) string {
	return ref.AddDate(0, 0, offset).Format(pantry.DateLayout)
}

// newLedger строит реестр с полным заголовком из строк-словарей.
func newLedger(rows ...map[pantry.Column]string) pantry.Ledger {
	return newLedgerWith(pantry.SheetHeader(), rows...)
}

func newLedgerWith(cols []pantry.Column, rows ...map[pantry.Column]string) pantry.Ledger {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}
	recs := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = r[c]
		}
		recs = append(recs, rec)
	}
	return pantry.FromRecords(header, recs, time.UTC)
}

func without(cols []pantry.Column, drop pantry.Column) []pantry.Column {
	out := make([]pantry.Column, 0, len(cols))
	for _, c := range cols {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}

func item(user, food string, qty string, expiryOffset int) map[pantry.Column]string {
	return map[pantry.Column]string{
		pantry.ColUsername:    user,
		pantry.ColFoodName:    food,
		pantry.ColQuantity:    qty,
		pantry.ColExpiryDate:  day(expiryOffset),
		pantry.ColDateOfEntry: day(-1),
	}
}
