package worker

import (
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithBatchSize sets how many snapshots are written per insert.
func WithBatchSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithFlushInterval sets how often a partial batch is written out.
func WithFlushInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.flushInterval = d
		}
	}
}

// WithLogger sets the logger used by the recorder.
func WithLogger(log logger.Logger) Option {
	return func(r *Recorder) {
		r.logger = log
	}
}
