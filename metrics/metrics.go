// Package metrics holds the Prometheus collectors for the product API.
// A Collector owns its own registry so it can be created at startup and
// handed to the router and the service layer explicitly.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DurationBuckets are the request duration histogram boundaries, in seconds.
var DurationBuckets = []float64{0.1, 0.3, 1.5, 5, 10}

// Collector provides the API's request and catalog metrics.
type Collector struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	activeProducts prometheus.Gauge
}

// NewCollector creates a collector with a fresh registry. An empty namespace
// keeps the bare metric names.
func NewCollector(namespace string) *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_count_total",
			Help:      "Total HTTP requests count",
		},
		[]string{"method", "route", "status_code"},
	)

	c.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations",
			Buckets:   DurationBuckets,
		},
		[]string{"method", "route"},
	)

	c.activeProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_products_total",
			Help:      "Total number of active products in the store",
		},
	)

	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.activeProducts,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the text exposition. Gather failures answer 500.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// RecordHTTPRequest records one finished request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unknown"
	}
	method = strings.ToUpper(method)
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetActiveProducts sets the stored product count.
func (c *Collector) SetActiveProducts(n int64) {
	c.activeProducts.Set(float64(n))
}
