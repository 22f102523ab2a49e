package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	anchorSubmitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "submit_total",
		Help:      "Count of anchoring submissions.",
	}, []string{"network", "status"})

	anchorSubmitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "submit_duration_seconds",
		Help:      "Duration from submission to resolved metadata.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 15, 30, 60, 120, 300},
	}, []string{"network", "status"})

	anchorQueryRangeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "query_range_total",
		Help:      "Count of historical range queries.",
	}, []string{"network", "status"})

	anchorQueryRangeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "query_range_duration_seconds",
		Help:      "Duration of historical range queries including splits.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	anchorQueryRangeSplits = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "query_range_splits",
		Help:      "Number of range bisections per query.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"network"})

	anchorEnrichTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "enrich_total",
		Help:      "Count of metadata enrichment batches.",
	}, []string{"network", "status"})

	anchorEnrichDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "enrich_duration_seconds",
		Help:      "Duration of metadata enrichment batches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	anchorEnrichBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "anchor",
		Name:      "enrich_batch_size",
		Help:      "Number of events enriched per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	}, []string{"network"})
)

// Anchor tracks metrics for the ledger anchor manager.
type Anchor struct {
	network string
}

// NewAnchor constructs an Anchor collector.
func NewAnchor(network string) *Anchor {
	if network == "" {
		network = "unknown"
	}
	return &Anchor{network: network}
}

// ObserveSubmit records a submission outcome.
func (m Anchor) ObserveSubmit(err error, started time.Time) {
	s := status(err)
	anchorSubmitTotal.WithLabelValues(m.network, s).Inc()
	anchorSubmitDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
}

// ObserveQueryRange records a range query and how often it was bisected.
func (m Anchor) ObserveQueryRange(err error, splits int, started time.Time) {
	s := status(err)
	anchorQueryRangeTotal.WithLabelValues(m.network, s).Inc()
	anchorQueryRangeDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	if splits > 0 {
		anchorQueryRangeSplits.WithLabelValues(m.network).Observe(float64(splits))
	}
}

// ObserveEnrich records a metadata enrichment batch.
func (m Anchor) ObserveEnrich(err error, events int, started time.Time) {
	s := status(err)
	anchorEnrichTotal.WithLabelValues(m.network, s).Inc()
	anchorEnrichDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	anchorEnrichBatchSize.WithLabelValues(m.network).Observe(float64(events))
}
