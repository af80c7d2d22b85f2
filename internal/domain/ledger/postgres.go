package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

type PGRepo struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewPGRepo(pool *pgxpool.Pool, loc *time.Location) *PGRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &PGRepo{pool: pool, loc: loc}
}

// Load — все строки таблицы в порядке вставки; в таблице есть все колонки реестра.
func (r *PGRepo) Load(ctx context.Context) (pantry.Ledger, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT row_id::text, username, food_name, brand, food_type,
		       quantity, q_unit, weight, w_unit, total_weight, price, total_price,
		       date_of_entry, date_of_purchase, expiry_date, remarks
		FROM inventory_rows
		ORDER BY id
	`)
	if err != nil {
		return pantry.Ledger{}, fmt.Errorf("query inventory_rows: %w", err)
	}
	defer rows.Close()

	out := pantry.Ledger{Schema: pantry.FullSchema()}
	for rows.Next() {
		var (
			row                    pantry.Row
			id                     string
			entry, bought, expires *time.Time
		)
		if err := rows.Scan(
			&id,
			&row.Username,
			&row.FoodName,
			&row.Brand,
			&row.FoodType,
			&row.Quantity,
			&row.QUnit,
			&row.Weight,
			&row.WUnit,
			&row.TotalWeight,
			&row.Price,
			&row.TotalPrice,
			&entry,
			&bought,
			&expires,
			&row.Remarks,
		); err != nil {
			return pantry.Ledger{}, err
		}
		if row.ID, err = uuid.Parse(id); err != nil {
			return pantry.Ledger{}, fmt.Errorf("row id %q: %w", id, err)
		}
		row.DateOfEntry = r.date(entry)
		row.DateOfPurchase = r.date(bought)
		row.ExpiryDate = r.date(expires)
		out.Rows = append(out.Rows, row)
	}
	return out, rows.Err()
}

func (r *PGRepo) Append(ctx context.Context, p pantry.Purchase) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_rows (
			row_id, username, date_of_entry, date_of_purchase, food_type, brand, food_name,
			quantity, q_unit, weight, w_unit, total_weight, price, total_price, expiry_date
		) VALUES ($1::uuid,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		uuid.NewString(),
		p.Username,
		p.DateOfEntry,
		p.DateOfPurchase,
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
		p.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("insert inventory row: %w", err)
	}
	return nil
}

// date: DATE приходит из драйвера в UTC, переносим календарный день в пояс реестра.
func (r *PGRepo) date(t *time.Time) pantry.Date {
	if t == nil {
		return pantry.Date{}
	}
	return pantry.NewDate(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc))
}

var _ Store = (*PGRepo)(nil)
