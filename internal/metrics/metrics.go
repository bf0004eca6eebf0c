// Package metrics exposes the trade cycle's Prometheus instrumentation.
//
// Served at /metrics when a listen address is configured:
//   - mercury_trade_cycles_total            — completed driver iterations
//   - mercury_orders_posted_total{side}     — orders posted to the exchange
//   - mercury_orders_completed_total{side}  — orders the exchange filled
//   - mercury_orders_cancelled_total{side}  — orders cancelled while polling
//   - mercury_order_outcomes_total{status}  — every exchange verdict seen
//   - mercury_market_price                  — last market price read
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigsaw04/mercury/internal/domain"
)

var (
	cycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mercury_trade_cycles_total",
			Help: "Trade cycle iterations completed",
		},
	)

	ordersPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercury_orders_posted_total",
			Help: "Orders posted to the exchange",
		},
		[]string{"side"},
	)

	ordersCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercury_orders_completed_total",
			Help: "Orders completed by the exchange",
		},
		[]string{"side"},
	)

	ordersCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercury_orders_cancelled_total",
			Help: "Orders cancelled while awaiting completion",
		},
		[]string{"side"},
	)

	orderOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercury_order_outcomes_total",
			Help: "Exchange verdicts on posted and polled orders",
		},
		[]string{"status"},
	)

	marketPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mercury_market_price",
			Help: "Last market price read from the exchange",
		},
	)
)

func init() {
	prometheus.MustRegister(
		cycles,
		ordersPosted,
		ordersCompleted,
		ordersCancelled,
		orderOutcomes,
		marketPrice,
	)
}

func Cycle() { cycles.Inc() }

func OrderPosted(side domain.Side) { ordersPosted.WithLabelValues(string(side)).Inc() }

func OrderCompleted(side domain.Side) { ordersCompleted.WithLabelValues(string(side)).Inc() }

func OrderCancelled(side domain.Side) { ordersCancelled.WithLabelValues(string(side)).Inc() }

func OrderOutcome(status domain.OrderStatus) { orderOutcomes.WithLabelValues(status.String()).Inc() }

func SetMarketPrice(p float64) { marketPrice.Set(p) }

// Serve exposes /metrics on addr in a background goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server stopped", "err", err)
		}
	}()
}
