package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OrdersCreated    prometheus.Counter
	OrderAmountCents prometheus.Histogram
	MessagesSent     prometheus.Counter
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "omegashop",
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	})
	orderAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "omegashop",
		Name:      "order_amount_cents",
		Help:      "Order amounts in minor units.",
		Buckets:   []float64{100, 500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
	})
	messagesSent := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "omegashop",
		Name:      "chat_messages_sent_total",
		Help:      "Total number of chat messages persisted.",
	})
	reg.MustRegister(ordersCreated, orderAmount, messagesSent)
	return &Metrics{
		OrdersCreated:    ordersCreated,
		OrderAmountCents: orderAmount,
		MessagesSent:     messagesSent,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
