package pantry

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Purchase — строка для дозаписи в реестр (14 полей, см. PurchaseColumns).
type Purchase struct {
	Username       string    `validate:"required"`
	DateOfEntry    time.Time `validate:"required"`
	DateOfPurchase time.Time `validate:"required"`
	FoodType       string
	Brand          string
	FoodName       string  `validate:"required"`
	Quantity       float64 `validate:"gte=0"`
	QUnit          string
	Weight         float64 `validate:"gte=0"`
	WUnit          string
	Price          float64   `validate:"gte=0"`
	ExpiryDate     time.Time `validate:"required"`
}

func (p Purchase) TotalWeight() float64 { return p.Weight * p.Quantity }
func (p Purchase) TotalPrice() float64  { return p.Price * p.Quantity }

func (p Purchase) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPurchase, err)
	}
	return nil
}

// Values — значения в порядке PurchaseColumns, даты в формате YYYY-MM-DD.
func (p Purchase) Values() []any {
	return []any{
		p.Username,
		p.DateOfEntry.Format(DateLayout),
		p.DateOfPurchase.Format(DateLayout),
		p.FoodType,
		p.Brand,
		p.FoodName,
		p.Quantity,
		p.QUnit,
		p.Weight,
		p.WUnit,
		p.TotalWeight(),
		p.Price,
		p.TotalPrice(),
		p.ExpiryDate.Format(DateLayout),
	}
}

// DefaultShelfDays срок годности по умолчанию для новой покупки.
const DefaultShelfDays = 7

// NewPurchase собирает покупку, подставляя тип/вес/цену из ранее купленной строки.
func NewPurchase(username, foodName, brand, unit string, qty float64, prefill Row, shopDate time.Time) Purchase {
	return Purchase{
		Username:       username,
		DateOfEntry:    shopDate,
		DateOfPurchase: shopDate,
		FoodType:       prefill.FoodType,
		Brand:          brand,
		FoodName:       foodName,
		Quantity:       qty,
		QUnit:          unit,
		Weight:         prefill.Weight,
		WUnit:          prefill.WUnit,
		Price:          prefill.Price,
		ExpiryDate:     shopDate.AddDate(0, 0, DefaultShelfDays),
	}
}
