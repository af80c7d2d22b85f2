package pantry

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Column string

const (
	ColUsername       Column = "Username"
	ColFoodName       Column = "Food_Name"
	ColBrand          Column = "Brand"
	ColFoodType       Column = "Food_Type"
	ColQuantity       Column = "Quantity"
	ColQUnit          Column = "QUnit"
	ColWeight         Column = "Weight"
	ColWUnit          Column = "WUnit"
	ColTotalWeight    Column = "Total_Weight"
	ColPrice          Column = "Price"
	ColTotalPrice     Column = "Total_Price"
	ColDateOfEntry    Column = "Date_of_Entry"
	ColDateOfPurchase Column = "Date_of_Purchase"
	ColExpiryDate     Column = "Expiry_Date"
	ColRemarks        Column = "Remarks"
)

// PurchaseColumns — фиксированный порядок колонок при дозаписи строки.
var PurchaseColumns = []Column{
	ColUsername, ColDateOfEntry, ColDateOfPurchase, ColFoodType, ColBrand, ColFoodName,
	ColQuantity, ColQUnit, ColWeight, ColWUnit, ColTotalWeight, ColPrice, ColTotalPrice, ColExpiryDate,
}

// SheetHeader — заголовок нового листа: колонки покупки + Remarks.
func SheetHeader() []Column {
	out := make([]Column, 0, len(PurchaseColumns)+1)
	out = append(out, PurchaseColumns...)
	return append(out, ColRemarks)
}

func knownColumns() []Column { return SheetHeader() }

// DateColumns колонки, которые разбираются как даты.
func DateColumns() []Column {
	return []Column{ColDateOfEntry, ColDateOfPurchase, ColExpiryDate}
}

// Schema — набор распознанных колонок, определяется один раз на загрузку.
type Schema map[Column]bool

func (s Schema) Has(c Column) bool { return s[c] }

// FullSchema для хранилищ с фиксированной структурой (Postgres).
func FullSchema() Schema {
	s := Schema{}
	for _, c := range knownColumns() {
		s[c] = true
	}
	return s
}

// Layout — позиции распознанных колонок в заголовке.
type Layout struct {
	Schema Schema
	index  map[Column]int
}

// DetectLayout сопоставляет заголовок с известными колонками; незнакомые игнорируются.
func DetectLayout(header []string) Layout {
	l := Layout{Schema: Schema{}, index: map[Column]int{}}
	known := map[string]Column{}
	for _, c := range knownColumns() {
		known[string(c)] = c
	}
	for i, h := range header {
		c, ok := known[strings.TrimSpace(h)]
		if !ok {
			continue
		}
		if _, dup := l.index[c]; dup {
			continue
		}
		l.index[c] = i
		l.Schema[c] = true
	}
	return l
}

// Index позиция колонки или -1.
func (l Layout) Index(c Column) int {
	if i, ok := l.index[c]; ok {
		return i
	}
	return -1
}

func (l Layout) cell(rec []string, c Column) string {
	i := l.Index(c)
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// ParseRow строит типизированную строку; отсутствующие колонки дают нулевые значения.
func (l Layout) ParseRow(id uuid.UUID, rec []string, loc *time.Location) Row {
	return Row{
		ID:             id,
		Username:       l.cell(rec, ColUsername),
		FoodName:       l.cell(rec, ColFoodName),
		Brand:          l.cell(rec, ColBrand),
		FoodType:       l.cell(rec, ColFoodType),
		Quantity:       ParseNumber(l.cell(rec, ColQuantity)),
		QUnit:          l.cell(rec, ColQUnit),
		Weight:         ParseNumber(l.cell(rec, ColWeight)),
		WUnit:          l.cell(rec, ColWUnit),
		TotalWeight:    ParseNumber(l.cell(rec, ColTotalWeight)),
		Price:          ParseNumber(l.cell(rec, ColPrice)),
		TotalPrice:     ParseNumber(l.cell(rec, ColTotalPrice)),
		DateOfEntry:    ParseDate(l.cell(rec, ColDateOfEntry), loc),
		DateOfPurchase: ParseDate(l.cell(rec, ColDateOfPurchase), loc),
		ExpiryDate:     ParseDate(l.cell(rec, ColExpiryDate), loc),
		Remarks:        l.cell(rec, ColRemarks),
	}
}

// FromRecords — разбор «сырых» строк с новыми идентификаторами.
func FromRecords(header []string, records [][]string, loc *time.Location) Ledger {
	layout := DetectLayout(header)
	l := Ledger{Schema: layout.Schema, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		l.Rows = append(l.Rows, layout.ParseRow(uuid.New(), rec, loc))
	}
	return l
}

// ParseNumber: нечисловое, NaN и бесконечность считаются нулём.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
}

// ParseDate разбирает дату в часовом поясе loc; ошибка разбора даёт Valid=false.
func ParseDate(s string, loc *time.Location) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			t = t.In(loc)
			return NewDate(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc))
		}
	}
	return Date{}
}
