package ports

import (
	"context"

	"github.com/bigsaw04/mercury/internal/domain"
)

// AdjustmentFunc receives the new sell/buy adjustment rates whenever the
// trade context reports a change.
type AdjustmentFunc func(sellAdj, buyAdj float64)

// TradeContext is the exchange-facing surface the trade cycle drives.
//
// PostOrder and OrderStatus report outcomes through the domain.OrderStatus
// taxonomy rather than through error values: every failure mode maps to a
// status the cycle has a fixed retry policy for, and the adapter logs
// transport detail itself.
type TradeContext interface {
	// CurrentPrice returns the latest trade price for the pair as a
	// decimal string.
	CurrentPrice(ctx context.Context) (string, error)

	// FiatBalance returns the available fiat balance. An empty string or
	// an error signals a transient read failure.
	FiatBalance(ctx context.Context) (string, error)

	// CoinBalance returns the available coin balance.
	CoinBalance(ctx context.Context) (string, error)

	// PostOrder submits a limit order and returns the exchange's verdict
	// plus the order reference when one was assigned.
	PostOrder(ctx context.Context, side domain.Side, kind domain.OrderKind, size, price, note string) (domain.OrderStatus, string)

	// OrderStatus polls a previously posted order by reference.
	OrderStatus(ctx context.Context, ref string) domain.OrderStatus

	// SellPriceAdjustment is the fraction added to a completed buy's price
	// when computing the next sell target.
	SellPriceAdjustment() float64

	// BuyPriceAdjustment is the fraction subtracted from a completed
	// sell's price when computing the next buy target.
	BuyPriceAdjustment() float64

	// OnAdjustmentChange registers fn to be called whenever either
	// adjustment rate changes.
	OnAdjustmentChange(fn AdjustmentFunc)
}
