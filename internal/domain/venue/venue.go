// Package venue estimates per-venue scoring-environment factors from
// ball-by-ball history.
//
// The factor for a venue is the mean runs off the bat per legal
// delivery there, divided by the league-wide mean, clamped to a band
// around neutral. Venues with too little history get exactly the
// neutral factor; a stable default beats an unstable estimate.
package venue

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/types"
)

// Default estimation constants.
const (
	// NeutralFactor is the factor for venues with insufficient history
	// and the fallback for venues absent from a factor set.
	NeutralFactor = 1.0

	defaultMinSamples  = 240 // 40 overs of legal deliveries
	defaultClampLow    = 0.7
	defaultClampHigh   = 1.3
	defaultParallelism = 8
)

// Factor is the estimate for a single venue.
type Factor struct {
	Factor  float64 // scoring factor, >1 batting-friendly, <1 bowling-friendly
	Samples int     // legal deliveries observed at the venue
}

// Factors maps venue name to its estimate. The mapping is complete over
// every venue seen during estimation.
type Factors map[string]Factor

// For returns the factor for a venue, falling back to NeutralFactor for
// venues with no computed estimate. Sparse history is expected, not an
// error.
func (f Factors) For(venue string) float64 {
	if v, ok := f[venue]; ok {
		return v.Factor
	}
	return NeutralFactor
}

// List returns the factors sorted by venue name.
func (f Factors) List() []types.VenueFactor {
	out := make([]types.VenueFactor, 0, len(f))
	for name, v := range f {
		out = append(out, types.VenueFactor{Venue: name, Factor: v.Factor, Samples: v.Samples})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Venue < out[j].Venue })
	return out
}

// Estimator computes venue factors from delivery history.
type Estimator struct {
	minSamples  int
	clampLow    float64
	clampHigh   float64
	parallelism int
}

// NewEstimator creates an estimator with configuration options.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		minSamples:  defaultMinSamples,
		clampLow:    defaultClampLow,
		clampHigh:   defaultClampHigh,
		parallelism: defaultParallelism,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// venueTally holds the per-venue aggregates.
type venueTally struct {
	legalBalls int
	batRuns    int
}

// Estimate produces the complete venue→factor mapping for the dataset.
// Per-venue aggregation fans out across venues; this phase is a
// read-only reduction with no ordering dependency, unlike the rating
// fold.
func (e *Estimator) Estimate(ctx context.Context, deliveries []model.Delivery) (Factors, error) {
	byVenue := make(map[string][]model.Delivery)
	for i, d := range deliveries {
		if d.Venue == "" {
			return nil, fmt.Errorf("delivery %d (%s): %w", i, d.Key(), ErrMissingVenue)
		}
		byVenue[d.Venue] = append(byVenue[d.Venue], d)
	}
	if len(byVenue) == 0 {
		return Factors{}, nil
	}

	names := make([]string, 0, len(byVenue))
	for name := range byVenue {
		names = append(names, name)
	}
	tallies := make([]venueTally, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("venue %q: %w", name, err)
			}
			tallies[i] = tally(byVenue[name])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var leagueBalls, leagueRuns int
	for _, t := range tallies {
		leagueBalls += t.legalBalls
		leagueRuns += t.batRuns
	}

	factors := make(Factors, len(names))
	if leagueBalls == 0 || leagueRuns == 0 {
		// Degenerate dataset; every venue is neutral.
		for i, name := range names {
			factors[name] = Factor{Factor: NeutralFactor, Samples: tallies[i].legalBalls}
		}
		return factors, nil
	}
	leagueMean := float64(leagueRuns) / float64(leagueBalls)

	for i, name := range names {
		t := tallies[i]
		f := Factor{Factor: NeutralFactor, Samples: t.legalBalls}
		if t.legalBalls >= e.minSamples {
			venueMean := float64(t.batRuns) / float64(t.legalBalls)
			f.Factor = clamp(venueMean/leagueMean, e.clampLow, e.clampHigh)
		}
		factors[name] = f
	}
	return factors, nil
}

func tally(deliveries []model.Delivery) venueTally {
	var t venueTally
	for _, d := range deliveries {
		if d.Wides > 0 || d.NoBalls > 0 {
			continue
		}
		t.legalBalls++
		t.batRuns += d.RunsOffBat
	}
	return t
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
