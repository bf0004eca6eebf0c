// Package engine drives the repeating buy/sell cycle for a single trading
// pair. One iteration: load the work order, dispatch to the handler for its
// action, let the handler talk to the exchange and rewrite the work order,
// then suspend for the delay the exchange's verdict dictates.
//
// The whole cycle runs on one goroutine. The work order file is the only
// durable state; every transition is written before the driver suspends, so
// a restart resumes exactly where the previous run left off.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigsaw04/mercury/internal/domain"
	"github.com/bigsaw04/mercury/internal/metrics"
	"github.com/bigsaw04/mercury/internal/ports"
)

// Delay policy per exchange verdict. These are the contract: a restart after
// any of these waits lands in a persisted state that replays correctly.
const (
	delayPendingCheck = 10 * time.Minute // order posted or still open
	delayNetworkRetry = 1 * time.Minute  // transient network failure
	delayRepost       = 1 * time.Minute  // order cancelled, repost coming
	delayFundsRetry   = 30 * time.Minute // insufficient funds, balance may change
	delayPostRetry    = 30 * time.Second // unrecognized post/poll failure
	delayBalanceRetry = 30 * time.Second // balance read failed or came back empty
)

// minFiatBalance is the floor below which trading is impossible and the
// cycle stops rather than retries.
const minFiatBalance = 5.00

// ErrHalted is returned by Run when a handler hit a fatal condition.
var ErrHalted = errors.New("trade cycle halted")

// outcome is what a handler tells the driver: suspend for delay, or stop.
type outcome struct {
	delay time.Duration
	stop  bool
}

func retryIn(d time.Duration) outcome { return outcome{delay: d} }

var (
	proceed = outcome{}          // re-check immediately
	halt    = outcome{stop: true}
)

// Config holds the operator-set knobs of the trade cycle.
type Config struct {
	// Allocation is the fraction of the fiat balance used for buys,
	// 0.10 ≤ Allocation ≤ 1.0. Sells always liquidate the full position.
	Allocation float64

	// Once runs a single iteration and returns; used by -once.
	Once bool
}

// Engine is the trade cycle driver.
type Engine struct {
	cfg      Config
	store    ports.WorkOrderStore
	exch     ports.TradeContext
	journal  ports.Journal    // optional
	notifier ports.Notifier   // optional
	cues     ports.CuePlayer  // optional
}

// New creates an Engine with all collaborators injected. journal, notifier
// and cues may be nil; they are side channels, never load-bearing.
func New(
	cfg Config,
	store ports.WorkOrderStore,
	exch ports.TradeContext,
	journal ports.Journal,
	notifier ports.Notifier,
	cues ports.CuePlayer,
) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    store,
		exch:     exch,
		journal:  journal,
		notifier: notifier,
		cues:     cues,
	}
}

// Run executes the trade cycle until the context is cancelled or a fatal
// condition stops it. A fatal stop (or an unreadable work order) returns a
// non-nil error; cancellation returns nil.
func (e *Engine) Run(ctx context.Context) error {
	e.exch.OnAdjustmentChange(func(sellAdj, buyAdj float64) {
		slog.Info("adjustment rates updated",
			"sell_increase", fmt.Sprintf("%.2f%%", sellAdj*100),
			"buy_decrease", fmt.Sprintf("%.2f%%", buyAdj*100),
		)
	})

	for {
		order, err := e.store.Load()
		if err != nil {
			slog.Error("cannot read work order", "err", err)
			return fmt.Errorf("engine.Run: %w", err)
		}

		out := e.step(ctx, order)
		metrics.Cycle()
		if out.stop {
			return ErrHalted
		}
		if e.cfg.Once {
			return nil
		}

		if err := sleepCtx(ctx, out.delay); err != nil {
			slog.Info("trade cycle stopped")
			return nil
		}
	}
}

// step dispatches one iteration to the handler for the order's action.
func (e *Engine) step(ctx context.Context, order domain.WorkOrder) outcome {
	switch order.Action {
	case domain.ActionBuy:
		return e.buy(ctx, order)
	case domain.ActionAwaitBuy:
		return e.awaitBuy(ctx, order)
	case domain.ActionSell:
		return e.sell(ctx, order)
	case domain.ActionAwaitSell:
		return e.awaitSell(ctx, order)
	default:
		slog.Error("work order contains an unknown action", "action", order.Action)
		return halt
	}
}

// persist writes the next work order state. A write failure is fatal: the
// cycle must never keep trading against state it could not record.
func (e *Engine) persist(order domain.WorkOrder) bool {
	if err := e.store.Save(order); err != nil {
		slog.Error("failed to write work order", "err", err)
		return false
	}
	return true
}

func (e *Engine) record(ctx context.Context, order domain.WorkOrder, side domain.Side, event, price, size, ref string) {
	if e.journal == nil {
		return
	}
	ev := domain.TradeEvent{
		Coin:     order.Coin,
		Fiat:     order.Fiat,
		Side:     side,
		Event:    event,
		Price:    price,
		Size:     size,
		OrderRef: ref,
	}
	if err := e.journal.Record(ctx, ev); err != nil {
		slog.Warn("journal error", "err", err)
	}
}

func (e *Engine) notify(ctx context.Context, title, body string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.SendMessage(ctx, title, body); err != nil {
		slog.Warn("notifier error", "err", err)
	}
}

func (e *Engine) playCue(ctx context.Context, name string) {
	if e.cues == nil {
		return
	}
	if err := e.cues.PlayCue(ctx, name); err != nil {
		slog.Warn("audio cue failed", "cue", name, "err", err)
	}
}

// sleepCtx blocks for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
