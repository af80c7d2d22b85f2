package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
	"github.com/Spok95/shelf-timer/internal/report"
)

func TestBuildWorkbook(t *testing.T) {
	t.Parallel()
	ref := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	in := report.Input{
		User:        "snackhoarder",
		DisplayName: "Maria",
		Generated:   ref,
		Dashboard: analytics.Dashboard{
			Summary:   analytics.Summary{UniqueProducts: 3, MoneyWasted: 6},
			Tier:      analytics.TierFor(250, 500),
			TopWasted: []analytics.ItemTotal{{FoodName: "Milk", Quantity: 2}},
		},
		Expiring: []pantry.Row{{FoodName: "Eggs", Quantity: 12, ExpiryDate: pantry.NewDate(ref)}},
		Grocery:  []analytics.Recommendation{{FoodName: "Bread", Unit: "loaf", Quantity: 2}},
	}

	data, err := report.Build(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got := f.GetSheetList(); len(got) != 4 || got[0] != report.SheetSummary {
		t.Fatalf("unexpected sheets %v", got)
	}
	if v, _ := f.GetCellValue(report.SheetSummary, "B2"); v != "Maria" {
		t.Fatalf("expected display name in B2, got %q", v)
	}
	if v, _ := f.GetCellValue(report.SheetSummary, "B12"); v != "Level 4: Sustainability Champion!" {
		t.Fatalf("unexpected tier cell %q", v)
	}
	if v, _ := f.GetCellValue(report.SheetExpiring, "F2"); v != "2026-10-18" {
		t.Fatalf("unexpected expiry cell %q", v)
	}
	if v, _ := f.GetCellValue(report.SheetGrocery, "D2"); v != "2" {
		t.Fatalf("unexpected grocery quantity %q", v)
	}
	if v, _ := f.GetCellValue(report.SheetTop, "A2"); v != "waste" {
		t.Fatalf("unexpected top mode %q", v)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC)
	if got := report.FileName("canofbeans", at); got != "dashboard_canofbeans_20261018_150405.xlsx" {
		t.Fatalf("unexpected file name %q", got)
	}
}
