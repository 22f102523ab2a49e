package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of gateway HTTP requests.",
	}, []string{"route", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of gateway HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})
)

// HTTP tracks metrics for gateway requests.
type HTTP struct{}

// NewHTTP constructs an HTTP collector.
func NewHTTP() *HTTP {
	return &HTTP{}
}

// Observe records a served request.
func (HTTP) Observe(route string, code int, started time.Time) {
	c := strconv.Itoa(code)
	httpRequestsTotal.WithLabelValues(route, c).Inc()
	httpRequestDuration.WithLabelValues(route, c).Observe(time.Since(started).Seconds())
}
