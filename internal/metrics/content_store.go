package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contentStoreRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "content_store",
		Name:      "operations_total",
		Help:      "Count of content store operations.",
	}, []string{"operation", "kind", "status"})
	contentStoreRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "content_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of content store operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "kind", "status"})
	contentStoreBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "content_store",
		Name:      "bytes_total",
		Help:      "Content bytes moved through the store.",
	}, []string{"operation", "kind"})
)

// ContentStore tracks metrics for a content store backend.
type ContentStore struct {
	kind string
}

// NewContentStore constructs a ContentStore collector for a backend kind.
func NewContentStore(kind string) *ContentStore {
	if kind == "" {
		kind = "unknown"
	}
	return &ContentStore{kind: kind}
}

// Observe records an operation outcome and the bytes it moved.
func (m ContentStore) Observe(operation string, bytes int, err error, started time.Time) {
	s := status(err)
	contentStoreRequestsTotal.WithLabelValues(operation, m.kind, s).Inc()
	contentStoreRequestDuration.WithLabelValues(operation, m.kind, s).Observe(time.Since(started).Seconds())
	if err == nil && bytes > 0 {
		contentStoreBytesTotal.WithLabelValues(operation, m.kind).Add(float64(bytes))
	}
}
