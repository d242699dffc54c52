package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	StagedMutations         prometheus.Counter
	SyncsCommitted          prometheus.Counter
	SyncsFailed             prometheus.Counter
	SyncDuration            prometheus.Histogram
	ValidationsRun          prometheus.Counter
	StaleValidationsDropped prometheus.Counter
	FeedBroadcasts          prometheus.Counter
	ErrorsCount             *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		StagedMutations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staged_mutations_total",
			Help:      "The total number of working-copy mutations",
		}),
		SyncsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syncs_committed_total",
			Help:      "The total number of schedule syncs committed",
		}),
		SyncsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syncs_failed_total",
			Help:      "The total number of schedule syncs that failed to commit",
		}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Time taken to commit a schedule sync",
			Buckets:   prometheus.DefBuckets,
		}),
		ValidationsRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_run_total",
			Help:      "The total number of compliance validations run",
		}),
		StaleValidationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_validations_dropped_total",
			Help:      "The total number of validation results discarded as stale",
		}),
		FeedBroadcasts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_broadcasts_total",
			Help:      "The total number of baseline feed broadcasts",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
