package domain

// Viewer access levels
const (
	AccessLevelRead  = "read"
	AccessLevelWrite = "write"
)

// Row filter kinds. Only property_match is executable by the filter
// compiler; the other kinds are accepted by configuration management and
// skipped during compilation.
const (
	FilterKindPropertyMatch = "property_match"
	FilterKindFormula       = "formula"
	FilterKindManualSelect  = "manual_select"
)

// DefaultFilterPropertyType is used when a filter row carries no declared
// property type. Matches the remote API's text predicate key.
const DefaultFilterPropertyType = "rich_text"

// Sync run kinds
const (
	RunKindManual    = "manual"
	RunKindScheduled = "scheduled"
)

// Sync run statuses
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)
