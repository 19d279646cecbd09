package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	OrdersPlaced prometheus.Counter
}

// New registers the dev server metrics on a fresh registry so that several servers can run
// in one process.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_devserver_requests_total",
			Help: "Requests served by the dev server",
		}, []string{"code", "method"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_devserver_request_duration_seconds",
			Help:    "Latency of dev server requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_devserver_orders_placed_total",
			Help: "Orders accepted by the dev server",
		}),
	}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests, promhttp.InstrumentHandlerDuration(m.duration, next))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
