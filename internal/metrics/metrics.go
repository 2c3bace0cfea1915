package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autotrader_orders_submitted_total",
			Help: "Total number of orders submitted to the exchange (by side).",
		},
		[]string{"side"},
	)

	OrderPolls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "autotrader_order_polls_total",
			Help: "Total number of order status poll ticks.",
		},
	)

	TradesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autotrader_trades_total",
			Help: "Completed trade cycles (by outcome).",
		},
		[]string{"outcome"},
	)

	LastPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "autotrader_last_price",
			Help: "Last observed asset price (by symbol).",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, OrderPolls, TradesCompleted, LastPrice)
}
