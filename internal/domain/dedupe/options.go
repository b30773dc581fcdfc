package dedupe

// defaultInitialCapacity sizes the seen set for a typical full-league
// ingest without rehashing.
const defaultInitialCapacity = 200_000

type config struct {
	initialCapacity int
}

// Option applies a configuration option to the deduper.
type Option func(*config)

// WithInitialCapacity pre-sizes the seen set.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.initialCapacity = n
		}
	}
}
