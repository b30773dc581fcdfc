package sqlstore

import "github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}
