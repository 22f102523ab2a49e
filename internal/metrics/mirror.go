package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "index_mirror",
		Name:      "operations_total",
		Help:      "Count of index mirror reads and writes.",
	}, []string{"operation", "network", "status"})
	mirrorOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "index_mirror",
		Name:      "operation_duration_seconds",
		Help:      "Latency of index mirror reads and writes.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2.5, 10),
	}, []string{"operation", "network", "status"})
)

// Mirror observes the ClickHouse index mirror.
type Mirror struct{}

func NewMirror() *Mirror {
	return &Mirror{}
}

// Observe records one mirror operation. Batches without a network are labeled "unknown".
func (Mirror) Observe(operation, network string, err error, started time.Time) {
	if network == "" {
		network = "unknown"
	}
	s := status(err)
	mirrorOperationsTotal.WithLabelValues(operation, network, s).Inc()
	mirrorOperationDuration.WithLabelValues(operation, network, s).Observe(time.Since(started).Seconds())
}
