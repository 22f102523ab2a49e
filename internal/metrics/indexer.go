package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexerFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "fetch_total",
		Help:      "Count of attempts to fetch a chunk of commitments.",
	}, []string{"network", "status"})

	indexerFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of fetching a chunk of commitments.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	indexerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "entries_total",
		Help:      "Count of commitments handed to the repository writer.",
	}, []string{"network"})

	indexerCursor = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "cursor_block",
		Help:      "Next block the indexer will fetch.",
	}, []string{"network"})

	indexerLag = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "lag_blocks",
		Help:      "Blocks between the ledger head and the indexer cursor.",
	}, []string{"network"})
)

// Indexer tracks metrics for the commitment indexer loop.
type Indexer struct {
	network string
}

// NewIndexer constructs an Indexer collector.
func NewIndexer(network string) *Indexer {
	if network == "" {
		network = "unknown"
	}
	return &Indexer{network: network}
}

// ObserveFetch records fetching one chunk and the entries it produced.
func (m Indexer) ObserveFetch(err error, entries int, started time.Time) {
	s := status(err)
	indexerFetchTotal.WithLabelValues(m.network, s).Inc()
	indexerFetchDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	if err == nil {
		indexerEntriesTotal.WithLabelValues(m.network).Add(float64(entries))
	}
}

// ObserveCursor records the cursor position against the head.
func (m Indexer) ObserveCursor(cursor, head uint64) {
	indexerCursor.WithLabelValues(m.network).Set(float64(cursor))
	var lag uint64
	if head >= cursor {
		lag = head - cursor + 1
	}
	indexerLag.WithLabelValues(m.network).Set(float64(lag))
}
