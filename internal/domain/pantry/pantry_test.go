package pantry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

func TestDetectLayoutIgnoresUnknownAndDuplicateColumns(t *testing.T) {
	t.Parallel()
	l := pantry.DetectLayout([]string{"Username", " Food_Name ", "Notes", "Food_Name", "Expiry_Date"})

	if !l.Schema.Has(pantry.ColUsername) || !l.Schema.Has(pantry.ColFoodName) || !l.Schema.Has(pantry.ColExpiryDate) {
		t.Fatalf("expected username, food name and expiry in schema, got %v", l.Schema)
	}
	if l.Schema.Has(pantry.ColDateOfEntry) {
		t.Fatalf("expected Date_of_Entry to be absent")
	}
	if got := l.Index(pantry.ColFoodName); got != 1 {
		t.Fatalf("expected first Food_Name column at 1, got %d", got)
	}
	if got := l.Index(pantry.ColBrand); got != -1 {
		t.Fatalf("expected -1 for missing column, got %d", got)
	}
}

func TestFromRecordsCoercesValues(t *testing.T) {
	t.Parallel()
	header := []string{"Username", "Food_Name", "Quantity", "Weight", "Price", "Expiry_Date", "Date_of_Entry"}
	recs := [][]string{
		{"u", "Milk", "2", "1000", "3.5", "2026-10-20", "not a date"},
		{"u", "Eggs", "abc", "", "NaN", "", "10/01/2026"},
		{"u", "Short"},
	}
	l := pantry.FromRecords(header, recs, time.UTC)

	if len(l.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(l.Rows))
	}
	milk := l.Rows[0]
	if milk.Quantity != 2 || milk.Weight != 1000 || milk.Price != 3.5 {
		t.Fatalf("unexpected milk numbers: %+v", milk)
	}
	if !milk.ExpiryDate.Valid || milk.ExpiryDate.String() != "2026-10-20" {
		t.Fatalf("expected expiry 2026-10-20, got %q", milk.ExpiryDate.String())
	}
	if milk.DateOfEntry.Valid {
		t.Fatalf("expected unparseable entry date to be unknown")
	}

	eggs := l.Rows[1]
	if eggs.Quantity != 0 || eggs.Price != 0 {
		t.Fatalf("expected unparseable numbers to coerce to 0, got %+v", eggs)
	}
	if eggs.ExpiryDate.Valid {
		t.Fatalf("expected empty expiry to be unknown")
	}
	if eggs.DateOfEntry.String() != "2026-10-01" {
		t.Fatalf("expected US date layout to parse, got %q", eggs.DateOfEntry.String())
	}
	if l.Rows[2].Quantity != 0 || l.Rows[2].ExpiryDate.Valid {
		t.Fatalf("expected short record to yield zero values")
	}
	if l.Rows[0].ID == l.Rows[1].ID {
		t.Fatalf("expected distinct row identities")
	}
}

func TestTrashedIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	for _, remark := range []string{"trashed", "TRASHED", "Trashed"} {
		if !(pantry.Row{Remarks: remark}).Trashed() {
			t.Fatalf("expected %q to be trashed", remark)
		}
	}
	for _, remark := range []string{"", " trashed", "trash"} {
		if (pantry.Row{Remarks: remark}).Trashed() {
			t.Fatalf("expected %q not to be trashed", remark)
		}
	}
}

func TestScopeUserFallsBackWithoutUsernameColumn(t *testing.T) {
	t.Parallel()
	withUser := pantry.FromRecords([]string{"Username", "Food_Name"}, [][]string{{"a", "x"}, {"b", "y"}}, time.UTC)
	if got := len(withUser.ScopeUser("a")); got != 1 {
		t.Fatalf("expected 1 row for user a, got %d", got)
	}
	if got := len(withUser.ScopeUser("")); got != 2 {
		t.Fatalf("expected all rows without a username filter, got %d", got)
	}

	noUser := pantry.FromRecords([]string{"Food_Name"}, [][]string{{"x"}, {"y"}}, time.UTC)
	if got := len(noUser.ScopeUser("a")); got != 2 {
		t.Fatalf("expected all rows when Username column is missing, got %d", got)
	}
}

func TestLedgerSubtractIsCopyOnWrite(t *testing.T) {
	t.Parallel()
	l := pantry.FromRecords(
		[]string{"Username", "Food_Name", "Brand", "Quantity", "QUnit"},
		[][]string{{"u", "Milk", "Acme", "2", "pack"}, {"u", "Milk", "Acme", "1", "pack"}},
		time.UTC,
	)

	next, row, err := l.Subtract("u", "Milk", "Acme", 5, true)
	if err != nil {
		t.Fatalf("subtract: %v", err)
	}
	if row.Quantity != 0 {
		t.Fatalf("expected quantity floored at 0, got %v", row.Quantity)
	}
	if !row.Trashed() {
		t.Fatalf("expected row marked trashed")
	}
	if l.Rows[0].Quantity != 2 || l.Rows[0].Trashed() {
		t.Fatalf("expected original ledger untouched, got %+v", l.Rows[0])
	}
	if next.Rows[0].ID != l.Rows[0].ID || next.Rows[0].Quantity != 0 {
		t.Fatalf("expected first matching row replaced, got %+v", next.Rows[0])
	}
	if next.Rows[1].Quantity != 1 {
		t.Fatalf("expected second row untouched, got %v", next.Rows[1].Quantity)
	}

	total, unit := l.Available("u", "Milk", "Acme")
	if total != 3 || unit != "pack" {
		t.Fatalf("expected 3 pack available, got %v %s", total, unit)
	}
}

func TestLedgerSubtractErrors(t *testing.T) {
	t.Parallel()
	l := pantry.FromRecords([]string{"Username", "Food_Name", "Brand", "Quantity"}, [][]string{{"u", "Milk", "", "1"}}, time.UTC)

	if _, _, err := l.Subtract("u", "Bread", "", 1, false); !errors.Is(err, pantry.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if _, _, err := l.Subtract("u", "Milk", "", -1, false); !errors.Is(err, pantry.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestApplyOverlaysVersions(t *testing.T) {
	t.Parallel()
	l := pantry.FromRecords([]string{"Username", "Food_Name", "Quantity"}, [][]string{{"u", "Milk", "4"}, {"u", "Eggs", "6"}}, time.UTC)
	v := l.Rows[1].Subtract(1)

	applied := l.Apply(map[uuid.UUID]pantry.Row{v.ID: v})
	if applied.Rows[1].Quantity != 5 {
		t.Fatalf("expected overlay quantity 5, got %v", applied.Rows[1].Quantity)
	}
	if applied.Rows[0].Quantity != 4 || l.Rows[1].Quantity != 6 {
		t.Fatalf("expected other rows and source ledger untouched")
	}
	if same := l.Apply(nil); same.Rows[1].Quantity != 6 {
		t.Fatalf("expected no change without versions")
	}
}

func TestPurchaseValuesOrderAndTotals(t *testing.T) {
	t.Parallel()
	shop := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	prefill := pantry.Row{FoodType: "Dairy", Weight: 500, WUnit: "g", Price: 2}
	p := pantry.NewPurchase("u", "Milk", "Acme", "pack", 3, prefill, shop)

	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	vals := p.Values()
	if len(vals) != len(pantry.PurchaseColumns) {
		t.Fatalf("expected %d values, got %d", len(pantry.PurchaseColumns), len(vals))
	}
	want := []any{"u", "2026-10-18", "2026-10-18", "Dairy", "Acme", "Milk", 3.0, "pack", 500.0, "g", 1500.0, 2.0, 6.0, "2026-10-25"}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("column %s: expected %v, got %v", pantry.PurchaseColumns[i], want[i], vals[i])
		}
	}
}

func TestPurchaseValidateRejectsMissingFields(t *testing.T) {
	t.Parallel()
	p := pantry.Purchase{Quantity: -1}
	if err := p.Validate(); !errors.Is(err, pantry.ErrInvalidPurchase) {
		t.Fatalf("expected ErrInvalidPurchase, got %v", err)
	}
}

func TestParseDateDropsTimeOfDay(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+3", 3*60*60)

	for _, s := range []string{"2026-10-25 15:30:00", "2026-10-25T15:30:00+03:00", "2026-10-25"} {
		d := pantry.ParseDate(s, loc)
		if !d.Valid {
			t.Fatalf("expected %q to parse", s)
		}
		want := time.Date(2026, 10, 25, 0, 0, 0, 0, loc)
		if !d.Time.Equal(want) {
			t.Fatalf("expected %q to become %s, got %s", s, want, d.Time)
		}
	}
}
