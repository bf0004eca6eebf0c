// Package exchange implements the trade context against a Coinbase
// Exchange style REST API: product ticker for prices, accounts for
// balances, limit orders posted and polled by id.
//
// Exchange outcomes are reported through the domain.OrderStatus taxonomy:
// transport failures, timeouts and 5xx map to a network error, an
// insufficient-funds rejection to its own status, auth failures to a fatal
// error, anything unrecognized to unknown. The trade cycle turns each
// status into a fixed retry delay.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bigsaw04/mercury/internal/domain"
	"github.com/bigsaw04/mercury/internal/ports"
)

const (
	defaultAdjustment = 0.10

	// Bounds on the volatility-derived adjustment rates.
	minAdjustment = 0.01
	maxAdjustment = 0.25
)

// Coinbase implements ports.TradeContext for one product (coin/fiat pair).
// Not safe for concurrent trading use; the trade cycle is its only caller.
// Adjustment rates are the exception: they are refreshed by PollAdjustments
// from a separate goroutine and read under a lock.
type Coinbase struct {
	client  *Client
	coin    string
	fiat    string
	product string

	mu       sync.Mutex
	sellAdj  float64
	buyAdj   float64
	onChange ports.AdjustmentFunc
}

// NewCoinbase creates the trade context for the given pair.
func NewCoinbase(client *Client, coin, fiat string) *Coinbase {
	return &Coinbase{
		client:  client,
		coin:    coin,
		fiat:    fiat,
		product: coin + "-" + fiat,
		sellAdj: defaultAdjustment,
		buyAdj:  defaultAdjustment,
	}
}

// CurrentPrice returns the last trade price for the product.
func (c *Coinbase) CurrentPrice(ctx context.Context) (string, error) {
	var ticker struct {
		Price string `json:"price"`
	}
	if err := c.client.get(ctx, "/products/"+c.product+"/ticker", &ticker); err != nil {
		return "", fmt.Errorf("exchange.CurrentPrice: %w", err)
	}
	if ticker.Price == "" {
		return "", fmt.Errorf("exchange.CurrentPrice: empty price for %s", c.product)
	}
	return ticker.Price, nil
}

// FiatBalance returns the available fiat balance as reported by the
// exchange. Errors and empty strings both mean a transient read failure.
func (c *Coinbase) FiatBalance(ctx context.Context) (string, error) {
	return c.balance(ctx, c.fiat)
}

// CoinBalance returns the available coin balance.
func (c *Coinbase) CoinBalance(ctx context.Context) (string, error) {
	return c.balance(ctx, c.coin)
}

func (c *Coinbase) balance(ctx context.Context, currency string) (string, error) {
	var accounts []struct {
		Currency  string `json:"currency"`
		Available string `json:"available"`
	}
	if err := c.client.getPrivate(ctx, "/accounts", &accounts); err != nil {
		return "", fmt.Errorf("exchange.balance: %w", err)
	}
	for _, a := range accounts {
		if a.Currency == currency {
			return a.Available, nil
		}
	}
	return "", fmt.Errorf("exchange.balance: no %s account", currency)
}

type orderResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	DoneReason string `json:"done_reason"`
	Settled    bool   `json:"settled"`
}

// PostOrder submits a limit order and maps the exchange's answer onto the
// order status taxonomy.
func (c *Coinbase) PostOrder(ctx context.Context, side domain.Side, kind domain.OrderKind, size, price, note string) (domain.OrderStatus, string) {
	req := struct {
		ClientOID string `json:"client_oid,omitempty"`
		ProductID string `json:"product_id"`
		Side      string `json:"side"`
		Type      string `json:"type"`
		Price     string `json:"price"`
		Size      string `json:"size"`
	}{
		ClientOID: note,
		ProductID: c.product,
		Side:      string(side),
		Type:      string(kind),
		Price:     price,
		Size:      size,
	}

	var resp orderResponse
	if err := c.client.post(ctx, "/orders", req, &resp); err != nil {
		return c.postErrorStatus(err), ""
	}
	return orderStatus(resp), resp.ID
}

// OrderStatus polls an order by reference. The exchange answers 404 for
// orders it has cancelled and dropped, so that maps to cancelled.
func (c *Coinbase) OrderStatus(ctx context.Context, ref string) domain.OrderStatus {
	var resp orderResponse
	if err := c.client.getPrivate(ctx, "/orders/"+ref, &resp); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			return domain.StatusCancelled
		}
		return c.postErrorStatus(err)
	}
	return orderStatus(resp)
}

// postErrorStatus classifies a request error.
func (c *Coinbase) postErrorStatus(err error) domain.OrderStatus {
	var ae *apiError
	if !errors.As(err, &ae) {
		// Transport-level failure: DNS, refused, timeout.
		slog.Debug("exchange request failed", "err", err)
		return domain.StatusNetworkError
	}
	switch {
	case ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden:
		slog.Error("exchange rejected credentials", "status", ae.Status, "msg", ae.Message)
		return domain.StatusFatal
	case ae.Status == http.StatusTooManyRequests || ae.Status >= 500:
		slog.Debug("exchange unavailable", "status", ae.Status, "msg", ae.Message)
		return domain.StatusNetworkError
	case strings.Contains(strings.ToLower(ae.Message), "insufficient funds"):
		return domain.StatusInsufficientFunds
	default:
		slog.Debug("exchange rejected order", "status", ae.Status, "msg", ae.Message)
		return domain.StatusUnknown
	}
}

// orderStatus maps an order document onto the taxonomy.
func orderStatus(resp orderResponse) domain.OrderStatus {
	switch resp.Status {
	case "open", "pending", "active", "received":
		return domain.StatusInProgress
	case "done":
		if strings.HasPrefix(resp.DoneReason, "cancel") {
			return domain.StatusCancelled
		}
		return domain.StatusCompleted
	case "settled":
		return domain.StatusCompleted
	default:
		if resp.Settled {
			return domain.StatusCompleted
		}
		return domain.StatusUnknown
	}
}

// SellPriceAdjustment returns the current sell adjustment rate.
func (c *Coinbase) SellPriceAdjustment() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sellAdj
}

// BuyPriceAdjustment returns the current buy adjustment rate.
func (c *Coinbase) BuyPriceAdjustment() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buyAdj
}

// OnAdjustmentChange registers the callback fired when either rate changes.
func (c *Coinbase) OnAdjustmentChange(fn ports.AdjustmentFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// PollAdjustments refreshes the adjustment rates from 24h product stats at
// the given interval until the context is cancelled. Rates derive from the
// day's range: a volatile day widens the profit step, a flat day narrows it.
func (c *Coinbase) PollAdjustments(ctx context.Context, interval time.Duration) {
	c.refreshAdjustments(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshAdjustments(ctx)
		}
	}
}

func (c *Coinbase) refreshAdjustments(ctx context.Context) {
	var stats struct {
		Open string `json:"open"`
		High string `json:"high"`
		Low  string `json:"low"`
	}
	if err := c.client.get(ctx, "/products/"+c.product+"/stats", &stats); err != nil {
		slog.Debug("failed to refresh adjustment rates", "err", err)
		return
	}

	open, err1 := domain.ParsePrice(stats.Open)
	high, err2 := domain.ParsePrice(stats.High)
	low, err3 := domain.ParsePrice(stats.Low)
	if err1 != nil || err2 != nil || err3 != nil || open <= 0 {
		slog.Debug("unusable product stats", "open", stats.Open, "high", stats.High, "low", stats.Low)
		return
	}

	sellAdj := clampAdjustment((high - open) / open)
	buyAdj := clampAdjustment((open - low) / open)

	c.mu.Lock()
	changed := sellAdj != c.sellAdj || buyAdj != c.buyAdj
	c.sellAdj, c.buyAdj = sellAdj, buyAdj
	fn := c.onChange
	c.mu.Unlock()

	if changed && fn != nil {
		fn(sellAdj, buyAdj)
	}
}

func clampAdjustment(v float64) float64 {
	v = math.Round(v*10000) / 10000
	if v < minAdjustment {
		return minAdjustment
	}
	if v > maxAdjustment {
		return maxAdjustment
	}
	return v
}
