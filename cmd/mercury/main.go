package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bigsaw04/mercury/config"
	"github.com/bigsaw04/mercury/internal/adapters/audio"
	"github.com/bigsaw04/mercury/internal/adapters/exchange"
	"github.com/bigsaw04/mercury/internal/adapters/journal"
	"github.com/bigsaw04/mercury/internal/adapters/notify"
	"github.com/bigsaw04/mercury/internal/adapters/store"
	"github.com/bigsaw04/mercury/internal/engine"
	"github.com/bigsaw04/mercury/internal/metrics"
	"github.com/bigsaw04/mercury/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	workOrderFile := flag.String("work-order-file", "", "full path of the work order file (overrides config)")
	percent := flag.Int("percent-of-balance", 0, "percentage of the fiat balance to use for trades (overrides config)")
	once := flag.Bool("once", false, "run one trade cycle and exit")
	report := flag.Bool("report", false, "print the trade journal report and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *workOrderFile != "" {
		cfg.Trading.WorkOrderFile = *workOrderFile
	}
	if *percent != 0 {
		cfg.Trading.PercentOfBalance = *percent
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *report {
		runReport(cfg)
		return
	}

	if cfg.Trading.PercentOfBalance < 10 || cfg.Trading.PercentOfBalance > 100 {
		slog.Error("invalid percent-of-balance: at least 10% of the fiat balance must be used",
			"percent", cfg.Trading.PercentOfBalance)
		os.Exit(1)
	}

	fmt.Println("mercury cryptocoin auto-trading robot")
	fmt.Println()

	slog.Info("mercury starting",
		"config", *configPath,
		"work_order_file", cfg.Trading.WorkOrderFile,
		"percent_of_balance", cfg.Trading.PercentOfBalance,
		"once", *once,
	)

	st, err := store.Open(cfg.Trading.WorkOrderFile)
	if err != nil {
		slog.Error("failed to open the work order file", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	initial, err := st.Load()
	if err != nil {
		slog.Error("failed to read the work order file", "err", err)
		os.Exit(1)
	}
	slog.Info("work order loaded",
		"pair", initial.Pair(),
		"action", initial.Action,
		"price", initial.Price,
	)
	slog.Info("fiat allocation",
		"percent", fmt.Sprintf("%.2f%%", float64(cfg.Trading.PercentOfBalance)),
		"fiat", initial.Fiat,
	)

	var jr ports.Journal
	if cfg.Journal.DSN != "" {
		j, err := journal.NewSQLite(cfg.Journal.DSN)
		if err != nil {
			slog.Error("failed to open the trade journal", "err", err, "dsn", cfg.Journal.DSN)
			os.Exit(1)
		}
		defer j.Close()
		jr = j
	}

	var notifier ports.Notifier
	if cfg.Notify.PushbulletToken != "" {
		notifier = notify.NewPushbullet(cfg.Notify.PushbulletToken)
		slog.Info("messaging system initialised", "channel", "pushbullet")
	} else {
		notifier = notify.NewConsole()
		slog.Info("messaging system initialised", "channel", "console")
	}

	cues := audio.NewPlayer(cfg.Audio.Player, map[string]string{
		ports.CueBuyComplete:  cfg.Audio.BuyCue,
		ports.CueSellComplete: cfg.Audio.SellCue,
	})

	client := exchange.NewClient(cfg.Exchange.APIBase, exchange.Credentials{
		Key:        cfg.Exchange.Key,
		Secret:     cfg.Exchange.Secret,
		Passphrase: cfg.Exchange.Passphrase,
	})
	cb := exchange.NewCoinbase(client, initial.Coin, initial.Fiat)

	if cfg.Metrics.Addr != "" {
		metrics.Serve(cfg.Metrics.Addr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go cb.PollAdjustments(ctx, cfg.AdjustmentPollInterval())

	eng := engine.New(engine.Config{
		Allocation: cfg.Allocation(),
		Once:       *once,
	}, st, cb, jr, notifier, cues)

	if err := eng.Run(ctx); err != nil {
		slog.Error("trade cycle exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("mercury stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
