package bootstrap

import (
	"context"
	"log/slog"

	"github.com/calderw/mirrorsync/internal/scheduler"
	"github.com/calderw/mirrorsync/internal/server"
	"github.com/calderw/mirrorsync/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	WorkerPool *worker.Pool
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in the correct order:
// 1. HTTP server (stop accepting new trigger requests)
// 2. Scheduler (stop enqueueing sweep jobs)
// 3. Worker pool (drain queued sync runs)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Scheduler != nil {
		slog.Info(LogMsgStoppingScheduler)
		components.Scheduler.Stop()
	}

	if components.WorkerPool != nil {
		slog.Info(LogMsgStoppingWorkerPool)
		components.WorkerPool.Stop()
	}

	slog.Info(LogMsgShutdownComplete)
}
