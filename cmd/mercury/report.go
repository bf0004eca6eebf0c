package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/bigsaw04/mercury/config"
	"github.com/bigsaw04/mercury/internal/adapters/journal"
)

const reportEventLimit = 25

// runReport prints the aggregate trade statistics and the most recent
// journal events, then exits. Requires a journal DSN in the config.
func runReport(cfg *config.Config) {
	if cfg.Journal.DSN == "" {
		slog.Error("report requires a journal dsn in the config")
		os.Exit(1)
	}

	jr, err := journal.NewSQLite(cfg.Journal.DSN)
	if err != nil {
		slog.Error("failed to open the trade journal", "err", err, "dsn", cfg.Journal.DSN)
		os.Exit(1)
	}
	defer jr.Close()

	ctx := context.Background()

	stats, err := jr.Stats(ctx)
	if err != nil {
		slog.Error("failed to read journal stats", "err", err)
		os.Exit(1)
	}

	fmt.Println("mercury trade journal")
	fmt.Println()
	if stats.Posted == 0 && stats.Completed == 0 && stats.Cancelled == 0 {
		fmt.Println("no trade events recorded yet")
		return
	}

	fmt.Printf("posted: %d  completed: %d  cancelled: %d  (buys: %d, sells: %d)\n",
		stats.Posted, stats.Completed, stats.Cancelled, stats.Buys, stats.Sells)
	fmt.Printf("first event: %s  last event: %s\n\n",
		formatEventTime(stats.First), formatEventTime(stats.Last))

	events, err := jr.Events(ctx, reportEventLimit)
	if err != nil {
		slog.Error("failed to read journal events", "err", err)
		os.Exit(1)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("When", "Pair", "Side", "Event", "Price", "Size", "Order")

	for _, ev := range events {
		table.Append(
			formatEventTime(ev.RecordedAt),
			ev.Coin+"-"+ev.Fiat,
			string(ev.Side),
			ev.Event,
			ev.Price,
			ev.Size,
			shortRef(ev.OrderRef),
		)
	}

	table.Render()
}

func formatEventTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// shortRef trims long exchange order ids for the table.
func shortRef(ref string) string {
	if len(ref) > 12 {
		return ref[:12] + "…"
	}
	return ref
}
