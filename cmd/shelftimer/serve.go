package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/Spok95/shelf-timer/internal/advisor"
	"github.com/Spok95/shelf-timer/internal/bot"
	"github.com/Spok95/shelf-timer/internal/dialog"
	"github.com/Spok95/shelf-timer/internal/domain/ledger"
	"github.com/Spok95/shelf-timer/internal/infra/db"
	httpx "github.com/Spok95/shelf-timer/internal/infra/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, if a token is configured, the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return withApp(cmd, func(ctx context.Context, a app) error {
			cfg := a.cfg
			if cfg.Ledger.Driver == ledger.DriverPostgres {
				if err := db.Migrate(cfg.Postgres.DSN); err != nil {
					return fmt.Errorf("migrations: %w", err)
				}
				a.log.Info("migrations applied")
			}

			adv := advisor.New(advisor.Config{
				APIKey:  cfg.Gemini.APIKey,
				Model:   cfg.Gemini.Model,
				BaseURL: cfg.Gemini.BaseURL,
				Timeout: cfg.Gemini.Timeout,
			}, a.log)
			if !adv.Configured() {
				a.log.Warn("gemini api key not set, assistant disabled")
			}

			api := httpx.NewAPI(httpx.Deps{
				Store:     a.store,
				Users:     a.users,
				Advisor:   adv,
				Location:  a.loc,
				CO2Factor: cfg.Analytics.CO2Factor,
				Log:       a.log,
			})
			srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, api)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.log.Error("http server error", "err", err)
				}
			}()
			a.log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

			if cfg.Telegram.Token != "" {
				tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
				if err != nil {
					return fmt.Errorf("telegram: %w", err)
				}
				a.log.Info("bot authorized", "username", tg.Self.UserName)
				b := bot.New(tg, a.log, a.users, dialog.NewStore(), a.store, adv, a.loc, cfg.Analytics.CO2Factor)
				go func() {
					if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
						a.log.Error("bot stopped", "err", err)
					}
				}()
			} else {
				a.log.Info("telegram token not set, bot disabled")
			}

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			a.log.Info("graceful shutdown complete")
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply Postgres ledger migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a app) error {
			if a.cfg.Ledger.Driver != ledger.DriverPostgres {
				return fmt.Errorf("migrate needs ledger.driver=postgres, got %q", a.cfg.Ledger.Driver)
			}
			if err := db.Migrate(a.cfg.Postgres.DSN); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
