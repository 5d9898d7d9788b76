package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cropai/cropai/pkg/service/worker"
	"github.com/m-mizutani/gt"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestReindexWorker(t *testing.T) {
	t.Run("runs periodically until stopped", func(t *testing.T) {
		var calls atomic.Int32
		w := worker.NewReindexWorker(func(ctx context.Context) error {
			calls.Add(1)
			return nil
		}, 10*time.Millisecond)

		gt.NoError(t, w.Start(context.Background())).Required()
		waitFor(t, func() bool { return calls.Load() >= 2 })
		w.Stop()

		stopped := calls.Load()
		time.Sleep(30 * time.Millisecond)
		gt.Value(t, calls.Load()).Equal(stopped)
	})

	t.Run("keeps running after a failure", func(t *testing.T) {
		var calls atomic.Int32
		w := worker.NewReindexWorker(func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("firestore unavailable")
		}, 10*time.Millisecond)

		gt.NoError(t, w.Start(context.Background())).Required()
		waitFor(t, func() bool { return calls.Load() >= 3 })
		w.Stop()
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		w := worker.NewReindexWorker(func(ctx context.Context) error { return nil }, time.Hour)

		gt.NoError(t, w.Start(ctx)).Required()
		cancel()

		done := make(chan struct{})
		go func() {
			w.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	})

	t.Run("rejects non positive interval", func(t *testing.T) {
		w := worker.NewReindexWorker(func(ctx context.Context) error { return nil }, 0)
		gt.Value(t, w.Start(context.Background())).NotNil()
	})
}
