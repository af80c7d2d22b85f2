package pantry

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound    = errors.New("pantry item not found")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative number")
	ErrInvalidPurchase = errors.New("invalid purchase row")
)

// RemarkTrashed помечает строку как выброшенную вручную (сравнение без учёта регистра).
const RemarkTrashed = "trashed"

const DateLayout = "2006-01-02"

// Date — дата из реестра. Valid=false означает «неизвестно»:
// такие строки не участвуют в логике по датам.
type Date struct {
	Time  time.Time
	Valid bool
}

func NewDate(t time.Time) Date { return Date{Time: t, Valid: true} }

func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// MarshalJSON: известная дата как "YYYY-MM-DD", неизвестная как null.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// Before true только для известной даты строго раньше t.
func (d Date) Before(t time.Time) bool {
	return d.Valid && d.Time.Before(t)
}

// Within проверяет from <= d <= to; неизвестная дата не попадает ни в какое окно.
func (d Date) Within(from, to time.Time) bool {
	return d.Valid && !d.Time.Before(from) && !d.Time.After(to)
}

// Row — одна запись реестра (единица покупки).
type Row struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FoodName       string    `json:"food_name"`
	Brand          string    `json:"brand"`
	FoodType       string    `json:"food_type"`
	Quantity       float64   `json:"quantity"`
	QUnit          string    `json:"q_unit"`
	Weight         float64   `json:"weight"` // граммы на единицу
	WUnit          string    `json:"w_unit"`
	TotalWeight    float64   `json:"total_weight"`
	Price          float64   `json:"price"` // цена за единицу
	TotalPrice     float64   `json:"total_price"`
	DateOfEntry    Date      `json:"date_of_entry"`
	DateOfPurchase Date      `json:"date_of_purchase"`
	ExpiryDate     Date      `json:"expiry_date"`
	Remarks        string    `json:"remarks"`
}

func (r Row) Trashed() bool {
	return strings.ToLower(r.Remarks) == RemarkTrashed
}

func (r Row) Mass() float64  { return r.Quantity * r.Weight }
func (r Row) Value() float64 { return r.Price * r.Quantity }

// Ledger — типизированный результат одной загрузки реестра.
type Ledger struct {
	Schema Schema
	Rows   []Row
}

// ForUser строгий фильтр по владельцу, порядок строк сохраняется.
func (l Ledger) ForUser(username string) []Row {
	out := make([]Row, 0, len(l.Rows))
	for _, r := range l.Rows {
		if r.Username == username {
			out = append(out, r)
		}
	}
	return out
}

// ScopeUser фильтрует по владельцу только если фильтр задан и колонка Username есть,
// иначе отдаёт все строки.
func (l Ledger) ScopeUser(username string) []Row {
	if username == "" || !l.Schema.Has(ColUsername) {
		out := make([]Row, len(l.Rows))
		copy(out, l.Rows)
		return out
	}
	return l.ForUser(username)
}

// Find возвращает строку по идентичности.
func (l Ledger) Find(id uuid.UUID) (Row, bool) {
	for _, r := range l.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Prefill — первая строка пользователя с тем же продуктом и брендом (для автозаполнения покупки).
func (l Ledger) Prefill(username, foodName, brand string) (Row, bool) {
	for _, r := range l.Rows {
		if r.Username == username && r.FoodName == foodName && r.Brand == brand {
			return r, true
		}
	}
	return Row{}, false
}
