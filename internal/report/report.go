// Package report собирает xlsx-выгрузку дашборда пользователя.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

const (
	SheetSummary  = "Summary"
	SheetExpiring = "Expiring"
	SheetGrocery  = "Grocery"
	SheetTop      = "Top items"
)

type Input struct {
	User        string
	DisplayName string
	Generated   time.Time
	Dashboard   analytics.Dashboard
	Expiring    []pantry.Row
	Grocery     []analytics.Recommendation
}

// FileName — имя файла выгрузки: dashboard_<user>_20061018_150405.xlsx
func FileName(user string, at time.Time) string {
	return fmt.Sprintf("dashboard_%s_%s.xlsx", user, at.Format("20060102_150405"))
}

func Build(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetExpiring, SheetGrocery, SheetTop} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	s := in.Dashboard.Summary
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"User", in.DisplayName},
		{"Generated", in.Generated.Format("2006-01-02 15:04")},
		{"Unique products", s.UniqueProducts},
		{"Last shopping", in.Dashboard.LastShopping},
		{"Expired items", s.ExpiredCount},
		{"Expiring soon", s.ExpiringSoonCount},
		{"CO2 emitted, kg", s.CO2EmittedKg},
		{"CO2 saved, kg", s.CO2SavedKg},
		{"Money wasted", s.MoneyWasted},
		{"Money saved", s.MoneySaved},
		{"Tier", in.Dashboard.Tier.String()},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	expiring := [][]interface{}{{"Food_Name", "Brand", "Food_Type", "Quantity", "QUnit", "Expiry_Date"}}
	for _, r := range in.Expiring {
		expiring = append(expiring, []interface{}{r.FoodName, r.Brand, r.FoodType, r.Quantity, r.QUnit, r.ExpiryDate.String()})
	}
	if err := writeRows(f, SheetExpiring, expiring); err != nil {
		return nil, err
	}

	grocery := [][]interface{}{{"Food_Name", "Brand", "Unit", "Recommended quantity"}}
	for _, g := range in.Grocery {
		grocery = append(grocery, []interface{}{g.FoodName, g.Brand, g.Unit, g.Quantity})
	}
	if err := writeRows(f, SheetGrocery, grocery); err != nil {
		return nil, err
	}

	top := [][]interface{}{{"Mode", "Food_Name", "Quantity"}}
	for _, it := range in.Dashboard.TopWasted {
		top = append(top, []interface{}{string(analytics.ModeWaste), it.FoodName, it.Quantity})
	}
	for _, it := range in.Dashboard.TopUsed {
		top = append(top, []interface{}{string(analytics.ModeUsed), it.FoodName, it.Quantity})
	}
	if err := writeRows(f, SheetTop, top); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
