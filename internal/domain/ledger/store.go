// Package ledger — доступ к реестру покупок: чтение целиком и дозапись строк.
// Хранилище выбирается конфигом: книга xlsx на диске или таблица Postgres.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
	"github.com/Spok95/shelf-timer/internal/infra/db"
	"github.com/Spok95/shelf-timer/internal/infra/metrics"
)

var ErrUnknownDriver = errors.New("unknown ledger driver")

const (
	DriverXLSX     = "xlsx"
	DriverPostgres = "postgres"
)

type Store interface {
	Load(ctx context.Context) (pantry.Ledger, error)
	Append(ctx context.Context, p pantry.Purchase) error
}

type Options struct {
	Driver   string
	Path     string
	Sheet    string
	DSN      string
	Location *time.Location
}

// Open создаёт хранилище по opts.Driver. Возвращаемый closer всегда не nil.
func Open(ctx context.Context, opts Options, log *slog.Logger) (Store, func(), error) {
	switch opts.Driver {
	case DriverXLSX, "":
		log.Info("ledger: xlsx", "path", opts.Path, "sheet", opts.Sheet)
		return Observed(NewSheet(opts.Path, opts.Sheet, opts.Location, log)), func() {}, nil
	case DriverPostgres:
		pool, err := db.Connect(ctx, opts.DSN)
		if err != nil {
			return nil, func() {}, fmt.Errorf("ledger: %w", err)
		}
		log.Info("ledger: postgres")
		return Observed(NewPGRepo(pool, opts.Location)), pool.Close, nil
	default:
		return nil, func() {}, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

type observed struct{ next Store }

// Observed считает операции хранилища в метриках.
func Observed(s Store) Store { return observed{next: s} }

func (o observed) Load(ctx context.Context) (pantry.Ledger, error) {
	l, err := o.next.Load(ctx)
	metrics.ObserveLedger("load", err)
	return l, err
}

func (o observed) Append(ctx context.Context, p pantry.Purchase) error {
	err := o.next.Append(ctx, p)
	metrics.ObserveLedger("append", err)
	return err
}
