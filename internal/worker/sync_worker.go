package worker

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/logger"
	"github.com/calderw/mirrorsync/internal/metrics"
	"github.com/calderw/mirrorsync/internal/repository"
	"github.com/calderw/mirrorsync/internal/sync"
)

// SyncWorker dispatches sync runs onto the pool and enforces at most one
// running or queued run per config. The engine itself is free of this
// concern; overlap control lives entirely here.
type SyncWorker struct {
	pool *Pool
	svc  sync.Service
	repo repository.Sync

	mu       stdsync.Mutex
	inFlight map[int64]bool
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(pool *Pool, svc sync.Service, repo repository.Sync) *SyncWorker {
	return &SyncWorker{
		pool:     pool,
		svc:      svc,
		repo:     repo,
		inFlight: make(map[int64]bool),
	}
}

// TriggerSync enqueues a run for the config. It returns ErrRunInProgress
// when a run for the same config is already queued or executing, and
// ErrQueueFull when the pool cannot take more work.
func (w *SyncWorker) TriggerSync(ctx context.Context, configID int64, kind string) error {
	log := logger.FromContext(ctx)

	w.mu.Lock()
	if w.inFlight[configID] {
		w.mu.Unlock()
		log.Info(LogMsgSyncAlreadyRunning, "config_id", configID)
		return domain.ErrRunInProgress
	}
	w.inFlight[configID] = true
	w.mu.Unlock()

	job := &syncJob{worker: w, configID: configID, kind: kind}
	if !w.pool.TryEnqueue(job) {
		w.release(configID)
		log.Warn(LogMsgSyncJobRejected, "config_id", configID)
		return domain.ErrQueueFull
	}

	log.Info(LogMsgSyncJobEnqueued, "config_id", configID, "kind", kind)
	return nil
}

// Running reports whether a run for the config is queued or executing.
func (w *SyncWorker) Running(configID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight[configID]
}

func (w *SyncWorker) release(configID int64) {
	w.mu.Lock()
	delete(w.inFlight, configID)
	w.mu.Unlock()
}

// syncJob is one queued sync run.
type syncJob struct {
	worker   *SyncWorker
	configID int64
	kind     string
}

// Process executes the run. Each job gets its own request id so log lines
// from one run correlate.
func (j *syncJob) Process(ctx context.Context) error {
	defer j.worker.release(j.configID)

	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())

	metrics.SyncRunsInFlight.Inc()
	defer metrics.SyncRunsInFlight.Dec()

	_, err := j.worker.svc.Run(ctx, j.configID, j.kind)
	return err
}

// SweepJob scans for due configs and enqueues a scheduled run for each.
// Configs already in flight are skipped silently; they will be due again on
// a later sweep.
type SweepJob struct {
	Worker *SyncWorker
	Now    func() time.Time
}

// NewSweepJob creates the scheduler job for periodic sync sweeps.
func NewSweepJob(w *SyncWorker) *SweepJob {
	return &SweepJob{Worker: w, Now: time.Now}
}

func (j *SweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	ids, err := j.Worker.repo.ListDueConfigIDs(ctx, j.Now())
	if err != nil {
		log.Error(LogMsgFailedToListDue, "error", err)
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	log.Info(LogMsgScheduledSweepStart, "due", len(ids))
	enqueued := 0
	for _, id := range ids {
		err := j.Worker.TriggerSync(ctx, id, domain.RunKindScheduled)
		switch err {
		case nil:
			enqueued++
		case domain.ErrRunInProgress, domain.ErrQueueFull:
			// Retried on the next sweep.
		default:
			log.Error(LogMsgWorkerJobFailed, "config_id", id, "error", err)
		}
	}
	log.Info(LogMsgScheduledSweepDone, "due", len(ids), "enqueued", enqueued)
	return nil
}
