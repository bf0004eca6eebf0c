package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bigsaw04/mercury/internal/domain"
	"github.com/bigsaw04/mercury/internal/metrics"
	"github.com/bigsaw04/mercury/internal/ports"
)

// buy posts a limit buy at the work order's target price, chasing the market
// price downward when it is more favourable.
func (e *Engine) buy(ctx context.Context, order domain.WorkOrder) outcome {
	target, err := domain.ParsePrice(order.Price)
	if err != nil {
		slog.Error("work order buy price is not a number", "price", order.Price, "err", err)
		return halt
	}

	priceStr := order.Price
	marketStr, err := e.exch.CurrentPrice(ctx)
	var market float64
	if err == nil {
		market, err = domain.ParsePrice(marketStr)
	}
	if err != nil {
		slog.Warn("failed to read the current price - retrying in 1 minute", "err", err)
		return retryIn(delayNetworkRetry)
	}
	metrics.SetMarketPrice(market)

	price, chased := domain.EffectiveBuyPrice(target, market)
	if chased {
		priceStr = marketStr
		slog.Info("updated buy price to current, better price", "price", priceStr, "fiat", order.Fiat)
	}

	balStr, err := e.exch.FiatBalance(ctx)
	if err != nil || balStr == "" {
		slog.Warn("failed to retrieve balance from server - retrying in 30 seconds", "err", err)
		return retryIn(delayBalanceRetry)
	}
	balance, err := domain.ParsePrice(balStr)
	if err != nil {
		slog.Warn("unreadable balance from server - retrying in 30 seconds", "balance", balStr, "err", err)
		return retryIn(delayBalanceRetry)
	}
	if balance < minFiatBalance {
		slog.Error("fiat balance below tradable minimum - trading impossible",
			"balance", balStr, "fiat", order.Fiat, "minimum", domain.FormatPrice(minFiatBalance))
		return halt
	}

	size := domain.BuyOrderSize(balance, e.cfg.Allocation, price)
	slog.Info("performing buy",
		"size", size, "coin", order.Coin,
		"price", priceStr, "fiat", order.Fiat,
		"balance", balStr,
	)

	status, ref := e.exch.PostOrder(ctx, domain.SideBuy, domain.KindLimit, size, priceStr, uuid.New().String())
	metrics.OrderOutcome(status)
	switch status {
	case domain.StatusInProgress:
		next := domain.WorkOrder{
			Coin:     order.Coin,
			Action:   domain.ActionAwaitBuy,
			Fiat:     order.Fiat,
			Price:    priceStr,
			OrderRef: ref,
		}
		if !e.persist(next) {
			return halt
		}
		e.record(ctx, order, domain.SideBuy, domain.EventPosted, priceStr, size, ref)
		metrics.OrderPosted(domain.SideBuy)
		slog.Info("buy order posted - checking outcome in 10 minutes", "ref", ref)
		return retryIn(delayPendingCheck)

	case domain.StatusCompleted:
		return e.buyCompleted(ctx, order, priceStr, ref)

	case domain.StatusNetworkError:
		slog.Warn("temporary network error - retrying in 1 minute")
		return retryIn(delayNetworkRetry)

	case domain.StatusInsufficientFunds:
		slog.Warn("insufficient fiat balance to post buy order - retrying in 30 minutes", "fiat", order.Fiat)
		return retryIn(delayFundsRetry)

	case domain.StatusFatal:
		slog.Error("the exchange reported a fatal error posting the buy order")
		return halt

	default:
		slog.Warn("failed to post buy order - retrying in 30 seconds", "status", status)
		return retryIn(delayPostRetry)
	}
}

// buyCompleted advances the cycle after a filled buy: the next state is a
// sell at the bought price plus the exchange's sell adjustment.
func (e *Engine) buyCompleted(ctx context.Context, order domain.WorkOrder, priceStr, ref string) outcome {
	price, err := domain.ParsePrice(priceStr)
	if err != nil {
		slog.Error("completed buy price is not a number", "price", priceStr, "err", err)
		return halt
	}

	e.playCue(ctx, ports.CueBuyComplete)

	next := domain.WorkOrder{
		Coin:     order.Coin,
		Action:   domain.ActionSell,
		Fiat:     order.Fiat,
		Price:    domain.FormatPrice(domain.NextSellTarget(price, e.exch.SellPriceAdjustment())),
		OrderRef: domain.NoOrderRef,
	}
	if !e.persist(next) {
		return halt
	}

	e.record(ctx, order, domain.SideBuy, domain.EventCompleted, priceStr, "", ref)
	metrics.OrderCompleted(domain.SideBuy)
	e.notify(ctx, "Buy order completed",
		fmt.Sprintf("Bought %s at %s %s. Next sell target: %s %s.",
			order.Coin, priceStr, order.Fiat, next.Price, order.Fiat))
	slog.Info("the current buy order has completed successfully", "next_sell_target", next.Price)
	return proceed
}
