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

// sell posts a limit sell for the entire coin balance at the work order's
// target price, chasing the market price upward when it is more favourable.
// Unlike buys, sells take no allocation fraction: they liquidate the full
// position bought in the previous half of the cycle.
func (e *Engine) sell(ctx context.Context, order domain.WorkOrder) outcome {
	target, err := domain.ParsePrice(order.Price)
	if err != nil {
		slog.Error("work order sell price is not a number", "price", order.Price, "err", err)
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

	if _, chased := domain.EffectiveSellPrice(target, market); chased {
		priceStr = marketStr
		slog.Info("updated sell price to current, better price", "price", priceStr, "fiat", order.Fiat)
	}

	size, err := e.exch.CoinBalance(ctx)
	if err != nil || size == "" {
		slog.Warn("failed to retrieve coin balance from server - retrying in 30 seconds", "err", err)
		return retryIn(delayBalanceRetry)
	}

	slog.Info("performing sell",
		"size", size, "coin", order.Coin,
		"price", priceStr, "fiat", order.Fiat,
	)

	status, ref := e.exch.PostOrder(ctx, domain.SideSell, domain.KindLimit, size, priceStr, uuid.New().String())
	metrics.OrderOutcome(status)
	switch status {
	case domain.StatusInProgress:
		next := domain.WorkOrder{
			Coin:     order.Coin,
			Action:   domain.ActionAwaitSell,
			Fiat:     order.Fiat,
			Price:    priceStr,
			OrderRef: ref,
		}
		if !e.persist(next) {
			return halt
		}
		e.record(ctx, order, domain.SideSell, domain.EventPosted, priceStr, size, ref)
		metrics.OrderPosted(domain.SideSell)
		slog.Info("sell order posted - checking outcome in 10 minutes", "ref", ref)
		return retryIn(delayPendingCheck)

	case domain.StatusCompleted:
		return e.sellCompleted(ctx, order, priceStr, ref)

	case domain.StatusNetworkError:
		slog.Warn("temporary network error - retrying in 1 minute")
		return retryIn(delayNetworkRetry)

	case domain.StatusInsufficientFunds:
		slog.Warn("insufficient coin balance to post sell order - retrying in 30 minutes", "coin", order.Coin)
		return retryIn(delayFundsRetry)

	case domain.StatusFatal:
		slog.Error("the exchange reported a fatal error posting the sell order")
		return halt

	default:
		slog.Warn("failed to post sell order - retrying in 30 seconds", "status", status)
		return retryIn(delayPostRetry)
	}
}

// sellCompleted advances the cycle after a filled sell: the next state is a
// buy at the sold price minus the exchange's buy adjustment.
func (e *Engine) sellCompleted(ctx context.Context, order domain.WorkOrder, priceStr, ref string) outcome {
	price, err := domain.ParsePrice(priceStr)
	if err != nil {
		slog.Error("completed sell price is not a number", "price", priceStr, "err", err)
		return halt
	}

	e.playCue(ctx, ports.CueSellComplete)

	next := domain.WorkOrder{
		Coin:     order.Coin,
		Action:   domain.ActionBuy,
		Fiat:     order.Fiat,
		Price:    domain.FormatPrice(domain.NextBuyTarget(price, e.exch.BuyPriceAdjustment())),
		OrderRef: domain.NoOrderRef,
	}
	if !e.persist(next) {
		return halt
	}

	e.record(ctx, order, domain.SideSell, domain.EventCompleted, priceStr, "", ref)
	metrics.OrderCompleted(domain.SideSell)
	e.notify(ctx, "Sell order completed",
		fmt.Sprintf("Sold %s at %s %s. Next buy target: %s %s.",
			order.Coin, priceStr, order.Fiat, next.Price, order.Fiat))
	slog.Info("the current sell order has completed successfully", "next_buy_target", next.Price)
	return proceed
}
