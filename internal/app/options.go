package service

import (
	"github.com/PratikParm/IPL-Elo-Ratings/internal/config"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig applies the process configuration to the service.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.dbPath = cfg.DBPath
		s.dataDir = cfg.DataDir
		s.kFactor = cfg.KFactor
		s.defaultRating = cfg.DefaultRating
		s.venueMinSamples = cfg.VenueMinSamples
		s.venueClampLow = cfg.VenueClampLow
		s.venueClampHigh = cfg.VenueClampHigh
		s.venueParallelism = cfg.VenueParallelism
		s.queueSize = cfg.SnapshotQueueSize
		s.batchSize = cfg.RecorderBatchSize
		s.decayThreshold = cfg.DecayThresholdDays
		s.decayRate = cfg.DecayRate
	}
}

// WithDBPath sets the SQLite database location.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithDataDir sets the match CSV directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
