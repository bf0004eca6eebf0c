package engine

import (
	"context"
	"log/slog"

	"github.com/bigsaw04/mercury/internal/domain"
	"github.com/bigsaw04/mercury/internal/metrics"
)

// awaitBuy polls a posted buy order. A cancelled order reverts the work
// order to the buy state at the same price so the next iteration reposts it.
func (e *Engine) awaitBuy(ctx context.Context, order domain.WorkOrder) outcome {
	status := e.exch.OrderStatus(ctx, order.OrderRef)
	metrics.OrderOutcome(status)
	switch status {
	case domain.StatusInProgress:
		slog.Info("the current buy order has not yet completed - checking again in 10 minutes", "ref", order.OrderRef)
		return retryIn(delayPendingCheck)

	case domain.StatusCompleted:
		return e.buyCompleted(ctx, order, order.Price, order.OrderRef)

	case domain.StatusNetworkError:
		slog.Warn("temporary network error - retrying in 1 minute")
		return retryIn(delayNetworkRetry)

	case domain.StatusCancelled:
		next := domain.WorkOrder{
			Coin:     order.Coin,
			Action:   domain.ActionBuy,
			Fiat:     order.Fiat,
			Price:    order.Price,
			OrderRef: domain.NoOrderRef,
		}
		if !e.persist(next) {
			return halt
		}
		e.record(ctx, order, domain.SideBuy, domain.EventCancelled, order.Price, "", order.OrderRef)
		metrics.OrderCancelled(domain.SideBuy)
		slog.Info("the current buy order appears to have been cancelled - setting up for repost in 1 minute")
		return retryIn(delayRepost)

	case domain.StatusFatal:
		slog.Error("the exchange reported a fatal error while checking the buy order", "ref", order.OrderRef)
		return halt

	default:
		slog.Warn("could not determine buy order status - retrying in 30 seconds", "ref", order.OrderRef)
		return retryIn(delayPostRetry)
	}
}

// awaitSell is the mirror of awaitBuy for a posted sell order.
func (e *Engine) awaitSell(ctx context.Context, order domain.WorkOrder) outcome {
	status := e.exch.OrderStatus(ctx, order.OrderRef)
	metrics.OrderOutcome(status)
	switch status {
	case domain.StatusInProgress:
		slog.Info("the current sell order has not yet completed - checking again in 10 minutes", "ref", order.OrderRef)
		return retryIn(delayPendingCheck)

	case domain.StatusCompleted:
		return e.sellCompleted(ctx, order, order.Price, order.OrderRef)

	case domain.StatusNetworkError:
		slog.Warn("temporary network error - retrying in 1 minute")
		return retryIn(delayNetworkRetry)

	case domain.StatusCancelled:
		next := domain.WorkOrder{
			Coin:     order.Coin,
			Action:   domain.ActionSell,
			Fiat:     order.Fiat,
			Price:    order.Price,
			OrderRef: domain.NoOrderRef,
		}
		if !e.persist(next) {
			return halt
		}
		e.record(ctx, order, domain.SideSell, domain.EventCancelled, order.Price, "", order.OrderRef)
		metrics.OrderCancelled(domain.SideSell)
		slog.Info("the current sell order appears to have been cancelled - setting up for repost in 1 minute")
		return retryIn(delayRepost)

	case domain.StatusFatal:
		slog.Error("the exchange reported a fatal error while checking the sell order", "ref", order.OrderRef)
		return halt

	default:
		slog.Warn("could not determine sell order status - retrying in 30 seconds", "ref", order.OrderRef)
		return retryIn(delayPostRetry)
	}
}
