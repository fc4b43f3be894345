package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Sync metric names
const (
	MetricNameSyncRunsTotal    = "sync_runs_total"
	MetricNameSyncRunDuration  = "sync_run_duration_seconds"
	MetricNameSyncRowsTotal    = "sync_rows_total"
	MetricNameSyncRunsInFlight = "sync_runs_in_flight"
)

// Remote API metric names
const (
	MetricNameRemoteCallsTotal = "remote_api_calls_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Sync metric help text
const (
	HelpTextSyncRunsTotal    = "Total number of completed sync runs"
	HelpTextSyncRunDuration  = "Sync run duration in seconds"
	HelpTextSyncRowsTotal    = "Total number of mirror rows created, updated or archived"
	HelpTextSyncRunsInFlight = "Current number of sync runs executing"
)

// Remote API metric help text
const (
	HelpTextRemoteCallsTotal = "Total number of remote API calls by operation and outcome"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelKind      = "kind"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
)

// Row operation label values
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Remote call outcome label values
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SyncRunDurationBuckets covers paced runs: every remote call waits on the
// rate limiter, so even small databases take seconds and large ones minutes.
var SyncRunDurationBuckets = []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}
