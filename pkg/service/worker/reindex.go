package worker

import (
	"context"
	"time"

	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ReindexFunc rebuilds the vocabulary and rewrites stored vectors
type ReindexFunc func(ctx context.Context) error

// ReindexWorker periodically rebuilds diagnosis vectors so that vectors written
// under older vocabularies become comparable again.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type ReindexWorker struct {
	reindex  ReindexFunc
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewReindexWorker creates a new worker running reindex every interval
func NewReindexWorker(reindex ReindexFunc, interval time.Duration) *ReindexWorker {
	return &ReindexWorker{
		reindex:  reindex,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background loop. It does not block server startup.
func (w *ReindexWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("reindex interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Reindex worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReindexWorker) Stop() {
	logging.Default().Info("Reindex worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Reindex worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *ReindexWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)

		case <-w.stopCh:
			logging.Default().Info("Reindex worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Reindex worker context cancelled")
			return
		}
	}
}

func (w *ReindexWorker) runOnce(ctx context.Context) {
	startTime := time.Now()
	if err := w.reindex(ctx); err != nil {
		// Log error but continue worker
		logging.Default().Error("Reindex failed (will retry next interval)",
			"error", err.Error())
		return
	}

	logging.Default().Info("Reindex completed",
		"duration", time.Since(startTime).String())
}
