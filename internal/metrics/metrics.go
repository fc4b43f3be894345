package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Sync Metrics
var (
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncRunsTotal,
			Help: HelpTextSyncRunsTotal,
		},
		[]string{LabelKind, LabelStatus},
	)

	SyncRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSyncRunDuration,
			Help:    HelpTextSyncRunDuration,
			Buckets: SyncRunDurationBuckets,
		},
		[]string{LabelKind},
	)

	SyncRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncRowsTotal,
			Help: HelpTextSyncRowsTotal,
		},
		[]string{LabelOperation},
	)

	SyncRunsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSyncRunsInFlight,
			Help: HelpTextSyncRunsInFlight,
		},
	)
)

// Remote API Metrics
var (
	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRemoteCallsTotal,
			Help: HelpTextRemoteCallsTotal,
		},
		[]string{LabelOperation, LabelOutcome},
	)
)

// RecordRemoteCall records one remote API request and whether it succeeded.
func RecordRemoteCall(operation string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	RemoteCallsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordSyncRun records one completed run with its terminal status.
func RecordSyncRun(kind, status string, duration time.Duration) {
	SyncRunsTotal.WithLabelValues(kind, status).Inc()
	SyncRunDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRowsSynced records the row counters of one run.
func RecordRowsSynced(created, updated, deleted int) {
	SyncRowsTotal.WithLabelValues(OperationCreate).Add(float64(created))
	SyncRowsTotal.WithLabelValues(OperationUpdate).Add(float64(updated))
	SyncRowsTotal.WithLabelValues(OperationDelete).Add(float64(deleted))
}
