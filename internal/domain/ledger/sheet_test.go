package ledger_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/shelf-timer/internal/domain/ledger"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

var shop = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

func newSheet(t *testing.T) (*ledger.Sheet, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pantry.xlsx")
	return ledger.NewSheet(path, "DB", time.UTC, slog.New(slog.DiscardHandler)), path
}

func milk() pantry.Purchase {
	return pantry.NewPurchase("snackhoarder", "Milk", "Acme", "pack", 3,
		pantry.Row{FoodType: "Dairy", Weight: 1000, WUnit: "g", Price: 1.5}, shop)
}

func TestSheetLoadMissingWorkbook(t *testing.T) {
	t.Parallel()
	s, _ := newSheet(t)

	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load missing workbook: %v", err)
	}
	if len(l.Rows) != 0 {
		t.Fatalf("expected empty ledger, got %d rows", len(l.Rows))
	}
}

func TestSheetAppendThenLoad(t *testing.T) {
	t.Parallel()
	s, _ := newSheet(t)
	ctx := context.Background()

	if err := s.Append(ctx, milk()); err != nil {
		t.Fatalf("append: %v", err)
	}
	bread := pantry.NewPurchase("hungryhippo", "Bread", "Baker", "loaf", 1, pantry.Row{}, shop)
	if err := s.Append(ctx, bread); err != nil {
		t.Fatalf("append: %v", err)
	}

	l, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, c := range pantry.SheetHeader() {
		if !l.Schema.Has(c) {
			t.Fatalf("expected canonical column %s", c)
		}
	}
	if len(l.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(l.Rows))
	}
	got := l.Rows[0]
	if got.FoodName != "Milk" || got.Brand != "Acme" || got.Quantity != 3 {
		t.Fatalf("unexpected first row %+v", got)
	}
	if got.TotalWeight != 3000 || got.TotalPrice != 4.5 || got.FoodType != "Dairy" {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got.ExpiryDate.String() != "2026-10-25" || got.DateOfEntry.String() != "2026-10-18" {
		t.Fatalf("unexpected dates entry=%s expiry=%s", got.DateOfEntry, got.ExpiryDate)
	}
	if l.Rows[1].Username != "hungryhippo" {
		t.Fatalf("expected second row to keep append order, got %+v", l.Rows[1])
	}
}

func TestSheetRowIDsStableAcrossLoads(t *testing.T) {
	t.Parallel()
	s, _ := newSheet(t)
	ctx := context.Background()
	if err := s.Append(ctx, milk()); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(ctx, milk()); err != nil {
		t.Fatalf("append: %v", err)
	}

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if first.Rows[0].ID != second.Rows[0].ID {
		t.Fatalf("expected stable IDs across loads")
	}
	if first.Rows[0].ID == first.Rows[1].ID {
		t.Fatalf("expected identical rows to have distinct IDs")
	}
}

func TestSheetAppendRejectsInvalidPurchase(t *testing.T) {
	t.Parallel()
	s, path := newSheet(t)

	err := s.Append(context.Background(), pantry.Purchase{})
	if !errors.Is(err, pantry.ErrInvalidPurchase) {
		t.Fatalf("expected ErrInvalidPurchase, got %v", err)
	}
	if _, err := excelize.OpenFile(path); err == nil {
		t.Fatalf("expected no workbook to be created for a rejected purchase")
	}
}

func TestSheetLoadForeignLayout(t *testing.T) {
	t.Parallel()
	s, path := newSheet(t)

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), "DB"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	header := []interface{}{"Notes", "Expiry_Date", "Food_Name", "Quantity", "Username"}
	if err := f.SetSheetRow("DB", "A1", &header); err != nil {
		t.Fatalf("header: %v", err)
	}
	row := []interface{}{"fridge", 46313, "Yogurt", "2", "snackhoarder"}
	if err := f.SetSheetRow("DB", "A2", &row); err != nil {
		t.Fatalf("row: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = f.Close()

	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Schema.Has(pantry.ColBrand) || !l.Schema.Has(pantry.ColExpiryDate) {
		t.Fatalf("unexpected schema %v", l.Schema)
	}
	if len(l.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(l.Rows))
	}
	r := l.Rows[0]
	if r.FoodName != "Yogurt" || r.Quantity != 2 || r.Brand != "" {
		t.Fatalf("unexpected row %+v", r)
	}
	if r.ExpiryDate.String() != "2026-10-18" {
		t.Fatalf("expected serial date to convert to 2026-10-18, got %q", r.ExpiryDate.String())
	}
}

func TestSheetAppendIntoEmptySheet(t *testing.T) {
	t.Parallel()
	s, path := newSheet(t)
	ctx := context.Background()

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), "DB"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = f.Close()

	if err := s.Append(ctx, milk()); err != nil {
		t.Fatalf("append: %v", err)
	}
	l, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !l.Schema.Has(pantry.ColFoodName) || !l.Schema.Has(pantry.ColExpiryDate) {
		t.Fatalf("expected canonical header to be written, got schema %v", l.Schema)
	}
	if len(l.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(l.Rows))
	}
	if got := l.Rows[0]; got.FoodName != "Milk" || got.Brand != "Acme" || got.Quantity != 3 {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()
	_, closeFn, err := ledger.Open(context.Background(), ledger.Options{Driver: "csv"}, slog.New(slog.DiscardHandler))
	defer closeFn()
	if !errors.Is(err, ledger.ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}
