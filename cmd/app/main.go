package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calderw/mirrorsync/internal/bootstrap"
	"github.com/calderw/mirrorsync/internal/config"
	"github.com/calderw/mirrorsync/internal/database"
	"github.com/calderw/mirrorsync/internal/handler"
	"github.com/calderw/mirrorsync/internal/notion"
	"github.com/calderw/mirrorsync/internal/scheduler"
	"github.com/calderw/mirrorsync/internal/server"
	"github.com/calderw/mirrorsync/internal/sync"
	"github.com/calderw/mirrorsync/internal/worker"
)

const shutdownTimeout = 30 * time.Second

// @title Mirrorsync API
// @version 1.0
// @description Bidirectional Notion database mirror sync service
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	handler.InitValidator()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := bootstrap.InitializeRepositories(dbPool)

	clientFactory := notion.NewFactory(cfg.NotionBaseURL, cfg.NotionVersion, cfg.NotionRequestRate)
	syncService := sync.NewService(repos.Sync, clientFactory)

	pool := worker.NewPool(cfg.SyncWorkers, cfg.SyncQueueSize)
	pool.Start()

	syncWorker := worker.NewSyncWorker(pool, syncService, repos.Sync)

	sched := scheduler.New(pool)
	sched.Schedule(cfg.SchedulerTick, worker.NewSweepJob(syncWorker))

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, syncService, syncWorker)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:     srv,
		Scheduler:  sched,
		WorkerPool: pool,
	})
}
