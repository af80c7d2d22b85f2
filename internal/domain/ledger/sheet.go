package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// rowNamespace — пространство имён для детерминированных ID строк листа:
// одна и та же строка книги получает один и тот же ID при каждой загрузке.
var rowNamespace = uuid.MustParse("6f1c2b6e-8d1e-4c55-9a53-2f7d0f3c8a41")

type Sheet struct {
	path  string
	sheet string
	loc   *time.Location
	log   *slog.Logger

	mu sync.Mutex
}

func NewSheet(path, sheet string, loc *time.Location, log *slog.Logger) *Sheet {
	if loc == nil {
		loc = time.UTC
	}
	return &Sheet{path: path, sheet: sheet, loc: loc, log: log}
}

// Load читает лист целиком: первая строка — заголовок, колонки ищутся по имени.
// Отсутствующая книга — пустой реестр.
func (s *Sheet) Load(ctx context.Context) (pantry.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return pantry.Ledger{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return pantry.Ledger{Schema: pantry.Schema{}}, nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return pantry.Ledger{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(s.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return pantry.Ledger{}, fmt.Errorf("read sheet %q: %w", s.sheet, err)
	}
	if len(rows) == 0 {
		return pantry.Ledger{Schema: pantry.Schema{}}, nil
	}

	layout := pantry.DetectLayout(rows[0])
	var dateIdx []int
	for _, c := range pantry.DateColumns() {
		if i := layout.Index(c); i >= 0 {
			dateIdx = append(dateIdx, i)
		}
	}

	out := pantry.Ledger{Schema: layout.Schema, Rows: make([]pantry.Row, 0, len(rows)-1)}
	for i, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		for _, j := range dateIdx {
			if j < len(rec) {
				rec[j] = serialDate(rec[j], s.loc)
			}
		}
		out.Rows = append(out.Rows, layout.ParseRow(s.rowID(i+2), rec, s.loc))
	}
	s.log.Debug("ledger loaded", "rows", len(out.Rows))
	return out, nil
}

// Append дописывает покупку после последней непустой строки в порядке PurchaseColumns.
// Отсутствующие книга или лист создаются с заголовком; пустому листу заголовок дописывается.
func (s *Sheet) Append(ctx context.Context, p pantry.Purchase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", s.sheet, err)
	}
	// лист без заголовка (пустой или с пустой первой строкой): иначе покупка встанет на место заголовка
	if len(rows) == 0 || blank(rows[0]) {
		if err := s.writeHeader(f); err != nil {
			return err
		}
		if len(rows) == 0 {
			rows = [][]string{nil}
		}
	}
	next := len(rows) + 1
	for next > 2 && blank(rows[next-2]) {
		next--
	}

	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return err
	}
	values := p.Values()
	if err := f.SetSheetRow(s.sheet, cell, &values); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	if created {
		err = f.SaveAs(s.path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.log.Info("purchase appended", "user", p.Username, "food", p.FoodName, "row", next)
	return nil
}

// open открывает книгу, при необходимости создавая её и лист с заголовком.
func (s *Sheet) open() (*excelize.File, bool, error) {
	var (
		f       *excelize.File
		err     error
		created bool
	)
	_, statErr := os.Stat(s.path)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		f = excelize.NewFile()
		created = true
		if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
			return nil, false, err
		}
		if err := s.writeHeader(f); err != nil {
			return nil, false, err
		}
	default:
		if f, err = excelize.OpenFile(s.path); err != nil {
			return nil, false, fmt.Errorf("open workbook: %w", err)
		}
	}

	if idx, _ := f.GetSheetIndex(s.sheet); idx < 0 {
		if _, err := f.NewSheet(s.sheet); err != nil {
			_ = f.Close()
			return nil, false, err
		}
		if err := s.writeHeader(f); err != nil {
			_ = f.Close()
			return nil, false, err
		}
	}
	return f, created, nil
}

func (s *Sheet) writeHeader(f *excelize.File) error {
	cols := pantry.SheetHeader()
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}
	if err := f.SetSheetRow(s.sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func (s *Sheet) rowID(excelRow int) uuid.UUID {
	return uuid.NewSHA1(rowNamespace, []byte(s.sheet+"!"+strconv.Itoa(excelRow)))
}

// serialDate переводит числовую дату Excel в YYYY-MM-DD; остальное без изменений.
func serialDate(v string, loc *time.Location) string {
	v = strings.TrimSpace(v)
	if v == "" || pantry.ParseDate(v, loc).Valid {
		return v
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(n, false)
	if err != nil {
		return v
	}
	return t.Format(pantry.DateLayout)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var _ Store = (*Sheet)(nil)
