package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-level counters for the engine & api, exported via /metrics.

var (
	ordersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbook_orders_submitted_total",
		Help: "Orders accepted by a book, by symbol and side.",
	}, []string{"symbol", "side"})

	ordersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbook_orders_rejected_total",
		Help: "Orders rejected before any state mutation, by reason.",
	}, []string{"reason"})

	ordersCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbook_orders_cancelled_total",
		Help: "Successful cancellations, by symbol.",
	}, []string{"symbol"})

	tradesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbook_trades_executed_total",
		Help: "Trades generated by matching, by symbol.",
	}, []string{"symbol"})
)

func OrderSubmitted(symbol, side string) {
	ordersSubmitted.WithLabelValues(symbol, side).Inc()
}

func OrderRejected(reason string) {
	ordersRejected.WithLabelValues(reason).Inc()
}

func OrderCancelled(symbol string) {
	ordersCancelled.WithLabelValues(symbol).Inc()
}

func TradesExecuted(symbol string, n int) {
	if n > 0 {
		tradesExecuted.WithLabelValues(symbol).Add(float64(n))
	}
}
