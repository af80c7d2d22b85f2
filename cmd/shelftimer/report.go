package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/report"
)

var (
	expiringFlags  reportFlags
	groceryFlags   reportFlags
	dashboardFlags reportFlags
	exportFlags    reportFlags
	exportOut      string
)

var expiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List items expiring within --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a app) error {
			ref, err := expiringFlags.resolve(a)
			if err != nil {
				return err
			}
			l, err := a.store.Load(ctx)
			if err != nil {
				return err
			}
			rows := analytics.ExpiringWithin(l, expiringFlags.user, expiringFlags.days, ref)
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No items expiring soon.")
				return nil
			}
			w := table(out)
			fmt.Fprintln(w, "FOOD\tBRAND\tQTY\tUNIT\tEXPIRES")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\n", r.FoodName, r.Brand, r.Quantity, r.QUnit, r.ExpiryDate)
			}
			return w.Flush()
		})
	},
}

var groceryCmd = &cobra.Command{
	Use:   "grocery",
	Short: "Suggest quantities to buy for the next --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a app) error {
			ref, err := groceryFlags.resolve(a)
			if err != nil {
				return err
			}
			l, err := a.store.Load(ctx)
			if err != nil {
				return err
			}
			recs := analytics.Recommend(l, groceryFlags.user, groceryFlags.days, ref)
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "Nothing to restock.")
				return nil
			}
			w := table(out)
			fmt.Fprintln(w, "#\tFOOD\tBRAND\tQTY\tUNIT")
			for i, r := range recs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, r.FoodName, r.Brand, r.Quantity, r.Unit)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			w = table(out)
			fmt.Fprintln(w, "FOOD TYPE\tITEMS")
			for _, tc := range analytics.TypeBreakdown(recs, l, groceryFlags.user) {
				fmt.Fprintf(w, "%s\t%d\n", tc.FoodType, tc.Count)
			}
			return w.Flush()
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the sustainability dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a app) error {
			ref, err := dashboardFlags.resolve(a)
			if err != nil {
				return err
			}
			l, err := a.store.Load(ctx)
			if err != nil {
				return err
			}
			d := analytics.BuildDashboard(l, dashboardFlags.user, ref, a.cfg.Analytics.CO2Factor)
			return printDashboard(cmd.OutOrStdout(), a.users.DisplayName(dashboardFlags.user), d)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboard workbook to --out",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a app) error {
			ref, err := exportFlags.resolve(a)
			if err != nil {
				return err
			}
			l, err := a.store.Load(ctx)
			if err != nil {
				return err
			}
			user := exportFlags.user
			now := time.Now().In(a.loc)
			data, err := report.Build(report.Input{
				User:        user,
				DisplayName: a.users.DisplayName(user),
				Generated:   now,
				Dashboard:   analytics.BuildDashboard(l, user, ref, a.cfg.Analytics.CO2Factor),
				Expiring:    analytics.ExpiringWithin(l, user, exportFlags.days, ref),
				Grocery:     analytics.Recommend(l, user, exportFlags.days, ref),
			})
			if err != nil {
				return fmt.Errorf("build report: %w", err)
			}
			path := exportOut
			if path == "" {
				path = report.FileName(user, now)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		})
	},
}

func init() {
	expiringFlags.bind(expiringCmd, true)
	groceryFlags.bind(groceryCmd, true)
	dashboardFlags.bind(dashboardCmd, false)
	exportFlags.bind(exportCmd, true)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default dashboard_<user>_<timestamp>.xlsx)")

	rootCmd.AddCommand(expiringCmd, groceryCmd, dashboardCmd, exportCmd)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printDashboard(out io.Writer, displayName string, d analytics.Dashboard) error {
	s := d.Summary
	last := d.LastShopping
	if last == "" {
		last = "-"
	}
	fmt.Fprintf(out, "Sustainability dashboard: %s\n\n", displayName)

	w := table(out)
	fmt.Fprintf(w, "Unique products\t%d\n", s.UniqueProducts)
	fmt.Fprintf(w, "Last shopping\t%s\n", last)
	fmt.Fprintf(w, "Expired items\t%d\n", s.ExpiredCount)
	fmt.Fprintf(w, "Expiring in %d days\t%d\n", analytics.SoonDays, s.ExpiringSoonCount)
	fmt.Fprintf(w, "CO2 emitted, kg\t%.2f\n", s.CO2EmittedKg)
	fmt.Fprintf(w, "CO2 saved, kg\t%.2f\n", s.CO2SavedKg)
	fmt.Fprintf(w, "Money lost\t%.2f\n", s.MoneyWasted)
	fmt.Fprintf(w, "Money saved\t%.2f\n", s.MoneySaved)
	fmt.Fprintf(w, "Tier\t%s\n", d.Tier)
	if err := w.Flush(); err != nil {
		return err
	}

	for _, block := range []struct {
		title string
		items []analytics.ItemTotal
	}{
		{"Most wasted", d.TopWasted},
		{"Most used", d.TopUsed},
	} {
		fmt.Fprintf(out, "\n%s:\n", block.title)
		if len(block.items) == 0 {
			fmt.Fprintln(out, "  none")
			continue
		}
		w := table(out)
		for i, it := range block.items {
			fmt.Fprintf(w, "  %d.\t%s\t%g\n", i+1, it.FoodName, it.Quantity)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
