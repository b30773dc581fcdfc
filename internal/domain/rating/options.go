package rating

import (
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKFactor sets the sensitivity constant scaling each update.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithRecorder sets the snapshot recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithRunID stamps every emitted snapshot with a rating-run identifier.
func WithRunID(id string) Option {
	return func(e *Engine) {
		e.runID = id
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSeasonalDecay configures inactivity decay applied at season
// boundaries: players inactive for more than thresholdDays lose rate
// points scaled by how long past the threshold they have been idle.
// A rate of zero disables decay.
func WithSeasonalDecay(thresholdDays int, rate float64) Option {
	return func(e *Engine) {
		if thresholdDays > 0 {
			e.decayThresholdDays = thresholdDays
		}
		if rate >= 0 {
			e.decayRate = rate
		}
	}
}
