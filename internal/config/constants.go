package config

import "time"

// Default configuration values
const (
	DefaultPort        = "8080"
	DefaultEnvironment = "dev"
	DefaultServiceName = "mirrorsync"
	DefaultVersion     = "dev"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"
	DefaultDBName      = "mirrorsync"

	DefaultNotionBaseURL = "https://api.notion.com/v1"
	DefaultNotionVersion = "2022-06-28"

	// The remote API enforces roughly 3 requests per second. This is an
	// external constraint, not a tunable performance knob.
	DefaultNotionRequestRate = "3"

	DefaultSchedulerTickSeconds = "60"
	DefaultSyncWorkers          = "4"
	DefaultSyncQueueSize        = "64"
)

// Database pool defaults
const (
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
)
