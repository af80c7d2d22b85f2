package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Spok95/shelf-timer/internal/config"
	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/ledger"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
	"github.com/Spok95/shelf-timer/internal/domain/users"
	"github.com/Spok95/shelf-timer/internal/infra/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "shelftimer",
	Short:         "shelftimer tracks pantry expiry, restocking and food waste",
	Long:          "shelftimer reads a pantry purchase ledger (xlsx or Postgres) and serves expiry alerts, grocery suggestions and a sustainability dashboard over HTTP, Telegram and the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/example.yaml", "Path to YAML config (empty: defaults and APP_* env only)")
}

// app — всё, что нужно одной команде: конфиг, логгер, реестр.
type app struct {
	cfg   config.Config
	log   *slog.Logger
	loc   *time.Location
	store ledger.Store
	users *users.Table
}

// withApp загружает конфиг и открывает реестр; логи идут в stderr, чтобы не мешать выводу таблиц.
func withApp(cmd *cobra.Command, run func(ctx context.Context, a app) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cfg.App.Env, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := ledger.Open(ctx, ledger.Options{
		Driver:   cfg.Ledger.Driver,
		Path:     cfg.Ledger.Path,
		Sheet:    cfg.Ledger.Sheet,
		DSN:      cfg.Postgres.DSN,
		Location: loc,
	}, log)
	if err != nil {
		return err
	}
	defer closeStore()

	return run(ctx, app{cfg: cfg, log: log, loc: loc, store: store, users: users.NewTable(cfg.Users)})
}

// reportFlags — общие флаги отчётных команд.
type reportFlags struct {
	user string
	days int
	date string
}

func (f *reportFlags) bind(cmd *cobra.Command, withDays bool) {
	cmd.Flags().StringVar(&f.user, "user", "", "Username whose rows to report (required)")
	cmd.Flags().StringVar(&f.date, "date", "", "Reference date YYYY-MM-DD (default today)")
	if withDays {
		cmd.Flags().IntVar(&f.days, "days", 7, "Days ahead")
	}
	_ = cmd.MarkFlagRequired("user")
}

// resolve проверяет флаги и возвращает опорную дату в часовом поясе конфига.
func (f *reportFlags) resolve(a app) (time.Time, error) {
	f.user = strings.TrimSpace(f.user)
	if !a.users.Exists(f.user) {
		return time.Time{}, fmt.Errorf("unknown user %q", f.user)
	}
	if f.days < 0 {
		return time.Time{}, fmt.Errorf("--days must be >= 0")
	}
	if strings.TrimSpace(f.date) == "" {
		return analytics.Today(a.loc), nil
	}
	t, err := time.ParseInLocation(pantry.DateLayout, strings.TrimSpace(f.date), a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", f.date)
	}
	return t, nil
}
