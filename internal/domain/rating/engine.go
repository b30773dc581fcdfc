package rating

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/outcome"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/venue"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/metrics"
)

// Default engine constants.
const (
	// DefaultKFactor bounds how far one delivery can move a rating.
	// Deliberately small next to classical chess K values; a T20 season
	// hands every regular player thousands of "games".
	DefaultKFactor = 4.0

	eloBase    = 10.0
	eloDivisor = 400.0

	defaultDecayThresholdDays = 400
	defaultDecayRate          = 0.0 // decay disabled unless configured
)

// Recorder receives rating snapshots after each update. Recording is
// best-effort: a false return means the snapshot was dropped, which the
// engine logs and counts but never treats as fatal.
type Recorder interface {
	Record(ctx context.Context, snap model.Snapshot) bool
}

// Engine folds deliveries, in strict chronological order, into the
// rating store. State carries forward across calls; the fold is
// deterministic for a fixed input order.
type Engine struct {
	k        float64
	store    *Store
	factors  venue.Factors
	recorder Recorder
	logger   logger.Logger
	runID    string

	seq  int64
	prev model.Delivery
	seen bool

	// Seasonal inactivity decay, applied at season boundaries.
	decayThresholdDays int
	decayRate          float64
	currentSeason      string
	lastBatted         map[string]time.Time
	lastBowled         map[string]time.Time
}

// NewEngine creates an engine folding into store using the given venue
// factors.
func NewEngine(store *Store, factors venue.Factors, opts ...Option) *Engine {
	e := &Engine{
		k:                  DefaultKFactor,
		store:              store,
		factors:            factors,
		logger:             logger.Get().Named("rating"),
		decayThresholdDays: defaultDecayThresholdDays,
		decayRate:          defaultDecayRate,
		lastBatted:         make(map[string]time.Time),
		lastBowled:         make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expected returns the expected-outcome probability E in [0,1] that the
// batter "wins" the delivery, given current ratings and the venue
// factor. The factor scales the rating gap multiplicatively: on a
// batting-friendly ground (factor > 1) an in-form batter is expected to
// dominate by more, on a bowling-friendly one by less. The scaling is
// continuous and monotone in both the gap and the factor.
func Expected(batting, bowling, factor float64) float64 {
	return 1.0 / (1.0 + math.Pow(eloBase, -(batting-bowling)*factor/eloDivisor))
}

// Process applies one delivery to the store and returns the two
// post-delivery ratings. rated is false when the delivery is an
// excluded extra, in which case neither rating moved and no snapshot
// was emitted. Deliveries must arrive in chronological order.
func (e *Engine) Process(ctx context.Context, d model.Delivery) (battingRating, bowlingRating float64, rated bool, err error) {
	if err := validate(d); err != nil {
		metrics.RecordDeliveryInvalid()
		return 0, 0, false, err
	}
	if e.seen && d.Before(e.prev) {
		metrics.RecordDeliveryInvalid()
		return 0, 0, false, fmt.Errorf("delivery %s after %s: %w", d.Key(), e.prev.Key(), ErrOutOfOrder)
	}
	e.prev = d
	e.seen = true

	if d.Season != e.currentSeason {
		e.applySeasonalDecay(ctx, d.Season, d.Date)
		e.currentSeason = d.Season
	}

	rb := e.store.GetBatting(d.Striker)
	ro := e.store.GetBowling(d.Bowler)

	cat := outcome.Classify(d)
	if !cat.Rated() {
		metrics.RecordDeliveryExcluded()
		return rb, ro, false, nil
	}

	f := e.factors.For(d.Venue)
	expected := Expected(rb, ro, f)
	delta := e.k * (cat.Score() - expected)

	// Zero-sum: the points the batter gains are exactly the points the
	// bowler loses.
	rb += delta
	ro -= delta
	e.store.SetBatting(d.Striker, rb)
	e.store.SetBowling(d.Bowler, ro)
	e.lastBatted[d.Striker] = d.Date
	e.lastBowled[d.Bowler] = d.Date

	e.seq++
	e.emit(ctx, model.Snapshot{
		RunID: e.runID, Player: d.Striker, Kind: model.Batting,
		Match: d.MatchID, Season: d.Season, Date: d.Date, Seq: e.seq, Rating: rb,
	})
	e.emit(ctx, model.Snapshot{
		RunID: e.runID, Player: d.Bowler, Kind: model.Bowling,
		Match: d.MatchID, Season: d.Season, Date: d.Date, Seq: e.seq, Rating: ro,
	})

	metrics.RecordDeliveryRated()
	return rb, ro, true, nil
}

// Run folds an entire sorted delivery sequence. It fails fast on the
// first malformed or out-of-order record; partial silent success would
// make the rating history non-reproducible.
func (e *Engine) Run(ctx context.Context, deliveries []model.Delivery) error {
	for i, d := range deliveries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("rating run interrupted at delivery %d: %w", i, err)
		}
		if _, _, _, err := e.Process(ctx, d); err != nil {
			return fmt.Errorf("delivery %d: %w", i, err)
		}
	}
	return nil
}

// Store returns the store the engine folds into.
func (e *Engine) Store() *Store {
	return e.store
}

// Processed returns the number of rated deliveries folded so far.
func (e *Engine) Processed() int64 {
	return e.seq
}

// applySeasonalDecay walks every previously seen player at a season
// boundary and decays ratings of those inactive beyond the threshold.
// A rate of zero, the default, makes this a no-op.
func (e *Engine) applySeasonalDecay(ctx context.Context, season string, seasonStart time.Time) {
	if e.decayRate == 0 || seasonStart.IsZero() {
		return
	}
	threshold := time.Duration(e.decayThresholdDays) * 24 * time.Hour
	cutoff := seasonStart.Add(-threshold)

	for _, player := range e.store.Players() {
		if last, ok := e.lastBatted[player]; ok && last.Before(cutoff) {
			factor := cutoff.Sub(last).Hours() / threshold.Hours()
			if factor >= 1 {
				r := e.store.GetBatting(player) - factor*e.decayRate
				e.store.SetBatting(player, r)
				e.seq++
				e.emit(ctx, model.Snapshot{
					RunID: e.runID, Player: player, Kind: model.Batting,
					Season: season, Date: seasonStart, Seq: e.seq, Rating: r,
				})
			}
		}
		if last, ok := e.lastBowled[player]; ok && last.Before(cutoff) {
			factor := cutoff.Sub(last).Hours() / threshold.Hours()
			if factor >= 1 {
				r := e.store.GetBowling(player) - factor*e.decayRate
				e.store.SetBowling(player, r)
				e.seq++
				e.emit(ctx, model.Snapshot{
					RunID: e.runID, Player: player, Kind: model.Bowling,
					Season: season, Date: seasonStart, Seq: e.seq, Rating: r,
				})
			}
		}
	}
}

func (e *Engine) emit(ctx context.Context, snap model.Snapshot) {
	if e.recorder == nil {
		return
	}
	if !e.recorder.Record(ctx, snap) {
		metrics.RecordSnapshotDropped()
		e.logger.Warn(ctx, "snapshot dropped",
			logger.String("player", snap.Player),
			logger.String("kind", string(snap.Kind)),
		)
	}
}

func validate(d model.Delivery) error {
	switch {
	case d.MatchID == "":
		return fmt.Errorf("delivery %s (striker %q, bowler %q): %w", d.Key(), d.Striker, d.Bowler, ErrMissingMatch)
	case d.Striker == "":
		return fmt.Errorf("delivery %s: %w", d.Key(), ErrMissingBatter)
	case d.Bowler == "":
		return fmt.Errorf("delivery %s: %w", d.Key(), ErrMissingBowler)
	case d.Venue == "":
		return fmt.Errorf("delivery %s: %w", d.Key(), ErrMissingVenue)
	case d.Date.IsZero():
		return fmt.Errorf("delivery %s: %w", d.Key(), ErrMissingDate)
	}
	return nil
}
