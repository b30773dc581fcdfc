package venue

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithMinSamples sets the minimum legal deliveries a venue needs before
// it gets a non-neutral factor.
func WithMinSamples(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.minSamples = n
		}
	}
}

// WithClampBand sets the inclusive band factors are clamped to.
func WithClampBand(lo, hi float64) Option {
	return func(e *Estimator) {
		if lo > 0 && hi > lo {
			e.clampLow = lo
			e.clampHigh = hi
		}
	}
}

// WithParallelism bounds the number of venues aggregated concurrently.
func WithParallelism(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.parallelism = n
		}
	}
}
