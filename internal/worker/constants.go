package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Sync Worker
// ============================================================================

// Log messages for sync worker operations
const (
	LogMsgSyncJobEnqueued     = "Sync job enqueued"
	LogMsgSyncJobRejected     = "Sync job rejected, queue full"
	LogMsgSyncAlreadyRunning  = "Sync already in progress, skipping"
	LogMsgScheduledSweepStart = "Scheduled sync sweep starting"
	LogMsgScheduledSweepDone  = "Scheduled sync sweep finished"
	LogMsgFailedToListDue     = "Failed to list due configs"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
