package ledger_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/shelf-timer/internal/domain/ledger"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
	"github.com/Spok95/shelf-timer/internal/infra/db"
)

// pgRepo — репозиторий на живой базе из DATABASE_URL; без неё тест пропускается.
func pgRepo(t *testing.T) *ledger.PGRepo {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is not set")
	}
	if err := db.Migrate(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := db.Connect(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return ledger.NewPGRepo(pool, time.UTC)
}

// rowsOf — строки одного пользователя; у каждого теста свой пользователь, чтобы не мешать друг другу.
func rowsOf(l pantry.Ledger, user string) []pantry.Row {
	var out []pantry.Row
	for _, r := range l.Rows {
		if r.Username == user {
			out = append(out, r)
		}
	}
	return out
}

func TestPGRepoAppendThenLoad(t *testing.T) {
	repo := pgRepo(t)
	ctx := context.Background()
	user := "pg-" + uuid.NewString()

	p := pantry.NewPurchase(user, "Milk", "Acme", "pack", 3,
		pantry.Row{FoodType: "Dairy", Weight: 1000, WUnit: "g", Price: 1.5}, shop)
	if err := repo.Append(ctx, p); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, pantry.NewPurchase(user, "Bread", "Baker", "loaf", 1, pantry.Row{}, shop)); err != nil {
		t.Fatalf("append: %v", err)
	}

	l, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, c := range pantry.SheetHeader() {
		if !l.Schema.Has(c) {
			t.Fatalf("expected column %s in schema", c)
		}
	}
	got := rowsOf(l, user)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	milk := got[0]
	if milk.FoodName != "Milk" || milk.Brand != "Acme" || milk.Quantity != 3 {
		t.Fatalf("unexpected first row %+v", milk)
	}
	if milk.TotalWeight != 3000 || milk.TotalPrice != 4.5 {
		t.Fatalf("unexpected totals %+v", milk)
	}
	if milk.DateOfEntry.String() != "2026-10-18" || milk.ExpiryDate.String() != "2026-10-25" {
		t.Fatalf("unexpected dates entry=%s expiry=%s", milk.DateOfEntry, milk.ExpiryDate)
	}
	if milk.ID == uuid.Nil || milk.ID == got[1].ID {
		t.Fatalf("expected distinct row ids, got %s and %s", milk.ID, got[1].ID)
	}
	if got[1].FoodName != "Bread" {
		t.Fatalf("expected insertion order, got %+v", got[1])
	}
}

func TestPGRepoRejectsInvalidPurchase(t *testing.T) {
	repo := pgRepo(t)

	err := repo.Append(context.Background(), pantry.Purchase{})
	if !errors.Is(err, pantry.ErrInvalidPurchase) {
		t.Fatalf("expected ErrInvalidPurchase, got %v", err)
	}
}

func TestOpenPostgresDriver(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is not set")
	}
	if err := db.Migrate(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, closeFn, err := ledger.Open(context.Background(), ledger.Options{Driver: ledger.DriverPostgres, DSN: dsn, Location: time.UTC}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeFn()
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
}
