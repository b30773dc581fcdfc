package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if IPLELO_CONFIG is set
//  3. env (prefix IPLELO_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("IPLELO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: IPLELO_ADDR, IPLELO_K_FACTOR, ...
	// Map env keys like IPLELO_K_FACTOR -> k_factor (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("IPLELO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "iplelo_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.KFactor <= 0:
		return fmt.Errorf("%w: k_factor must be positive", ErrInvalidConfig)
	case c.DefaultRating <= 0:
		return fmt.Errorf("%w: default_rating must be positive", ErrInvalidConfig)
	case c.VenueClampLow > c.VenueClampHigh:
		return fmt.Errorf("%w: venue clamp band is inverted", ErrInvalidConfig)
	case c.VenueMinSamples < 0:
		return fmt.Errorf("%w: venue_min_samples must not be negative", ErrInvalidConfig)
	case c.SnapshotQueueSize < 1:
		return fmt.Errorf("%w: snapshot_queue_size must be positive", ErrInvalidConfig)
	case c.RecorderBatchSize < 1:
		return fmt.Errorf("%w: recorder_batch_size must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.DecayRate < 0:
		return fmt.Errorf("%w: decay_rate must not be negative", ErrInvalidConfig)
	}
	return nil
}
