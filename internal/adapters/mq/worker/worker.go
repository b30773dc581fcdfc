// Package worker drains the snapshot queue and persists snapshots in
// batches. A single recorder goroutine is used rather than a pool:
// snapshots carry a global sequence number and are written in arrival
// order, so parallel consumers would interleave batches for no gain.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/metrics"
)

// Default recorder configuration constants.
const (
	defaultBatchSize     = 500
	defaultFlushInterval = 2 * time.Second
	shutdownTimeout      = 30 * time.Second
)

// Inserter persists a batch of snapshots.
type Inserter interface {
	InsertSnapshots(ctx context.Context, snapshots []model.Snapshot) error
}

// Queue defines how the recorder receives snapshots.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Snapshot
}

// Worker consumes queued snapshots until stopped.
type Worker interface {
	// Run starts the recording loop until ctx is canceled or the
	// queue closes and drains.
	Run(ctx context.Context)

	// Shutdown stops the worker after flushing buffered snapshots.
	Shutdown(ctx context.Context) error
}

// Recorder implements Worker by batching snapshots into an Inserter.
type Recorder struct {
	queue    Queue
	inserter Inserter

	batchSize     int
	flushInterval time.Duration

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewRecorder creates a snapshot recorder with configuration options.
func NewRecorder(queue Queue, inserter Inserter, opts ...Option) *Recorder {
	r := &Recorder{
		queue:         queue,
		inserter:      inserter,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger.Get().Named("recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the recording loop.
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	in := r.queue.Dequeue(ctx)
	batch := make([]model.Snapshot, 0, r.batchSize)

	for {
		select {
		case <-ctx.Done():
			r.flush(context.WithoutCancel(ctx), batch)
			return
		case <-r.shutdown:
			r.drain(ctx, in, batch)
			return
		case <-ticker.C:
			r.flush(ctx, batch)
			batch = batch[:0]
		case snap, ok := <-in:
			if !ok {
				r.flush(ctx, batch)
				return
			}
			batch = append(batch, snap)
			if len(batch) >= r.batchSize {
				r.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

// Shutdown stops the recorder, waiting for the final flush.
func (r *Recorder) Shutdown(ctx context.Context) error {
	close(r.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	select {
	case <-r.done:
		return nil
	case <-shutdownCtx.Done():
		r.logger.Warn(ctx, "recorder shutdown timed out")
		return fmt.Errorf("recorder shutdown timed out: %w", shutdownCtx.Err())
	}
}

// drain keeps reading briefly after a shutdown signal so snapshots
// already queued are not lost to the stop race. The grace timeout
// covers the handoff from the queue's forwarding goroutine; a closed
// queue ends the drain as soon as the channel closes.
func (r *Recorder) drain(ctx context.Context, in <-chan model.Snapshot, batch []model.Snapshot) {
	const grace = 50 * time.Millisecond
	for {
		select {
		case snap, ok := <-in:
			if !ok {
				r.flush(ctx, batch)
				return
			}
			batch = append(batch, snap)
		case <-time.After(grace):
			r.flush(ctx, batch)
			return
		}
	}
}

func (r *Recorder) flush(ctx context.Context, batch []model.Snapshot) {
	if len(batch) == 0 {
		return
	}
	if err := r.inserter.InsertSnapshots(ctx, batch); err != nil {
		// The snapshots in a failed batch are lost; the final
		// ratings are unaffected since the store already holds them.
		for range batch {
			metrics.RecordSnapshotDropped()
		}
		r.logger.Error(ctx, "snapshot batch insert failed",
			logger.Int("batch_size", len(batch)),
			logger.Error(err),
		)
		return
	}
	for range batch {
		metrics.RecordSnapshotRecorded()
	}
}
