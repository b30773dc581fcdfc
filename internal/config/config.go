// Package config defines process configuration and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and environment overrides in Load.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir points at the directory of ball-by-ball match CSV files.
	DataDir string `koanf:"data_dir"`

	// DBPath locates the SQLite database file.
	DBPath string `koanf:"db_path"`

	// KFactor scales every rating update.
	KFactor float64 `koanf:"k_factor"`

	// DefaultRating seeds players on first appearance.
	DefaultRating float64 `koanf:"default_rating"`

	// VenueMinSamples is the legal-delivery floor below which a venue
	// keeps a neutral factor.
	VenueMinSamples int `koanf:"venue_min_samples"`

	// VenueClampLow and VenueClampHigh bound estimated venue factors.
	VenueClampLow  float64 `koanf:"venue_clamp_low"`
	VenueClampHigh float64 `koanf:"venue_clamp_high"`

	// VenueParallelism bounds concurrent per-venue estimation.
	VenueParallelism int `koanf:"venue_parallelism"`

	// SnapshotQueueSize bounds the in-memory snapshot queue.
	SnapshotQueueSize int `koanf:"snapshot_queue_size"`

	// RecorderBatchSize sets how many snapshots are persisted per insert.
	RecorderBatchSize int `koanf:"recorder_batch_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DecayThresholdDays is the inactivity span before seasonal decay
	// applies. DecayRate is points lost per threshold span; zero
	// disables decay.
	DecayThresholdDays int     `koanf:"decay_threshold_days"`
	DecayRate          float64 `koanf:"decay_rate"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DataDir:             "data",
		DBPath:              "iplelo.db",
		KFactor:             4.0,
		DefaultRating:       1500.0,
		VenueMinSamples:     240,
		VenueClampLow:       0.7,
		VenueClampHigh:      1.3,
		VenueParallelism:    8,
		SnapshotQueueSize:   100_000,
		RecorderBatchSize:   500,
		MaxLeaderboardLimit: 100,
		DecayThresholdDays:  400,
		DecayRate:           0.0,
	}
}
