// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the rating pipelines.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/adapters/ingest"
	snapqueue "github.com/PratikParm/IPL-Elo-Ratings/internal/adapters/mq/queue"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/adapters/mq/worker"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/adapters/repository"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/adapters/sqlstore"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/rating"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/types"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/venue"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/metrics"
)

// queueRecorder adapts the snapshot queue to the engine's Recorder.
type queueRecorder struct {
	queue snapqueue.Queue
}

func (r *queueRecorder) Record(ctx context.Context, snap model.Snapshot) bool {
	return r.queue.Enqueue(ctx, snap)
}

// Service wires the rating pipeline and serves the query API.
type Service struct {
	mu sync.RWMutex

	// Core components
	db          *sql.DB
	store       *sqlstore.Store
	leaderboard repository.Store
	reader      *ingest.Reader

	// Configuration
	dbPath           string
	dataDir          string
	kFactor          float64
	defaultRating    float64
	venueMinSamples  int
	venueClampLow    float64
	venueClampHigh   float64
	venueParallelism int
	queueSize        int
	batchSize        int
	decayThreshold   int
	decayRate        float64

	// State
	runID   string
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:           "iplelo.db",
		dataDir:          "data",
		kFactor:          rating.DefaultKFactor,
		defaultRating:    rating.DefaultRating,
		venueMinSamples:  240,
		venueClampLow:    0.7,
		venueClampHigh:   1.3,
		venueParallelism: 8,
		queueSize:        100_000,
		batchSize:        500,
		decayThreshold:   400,
		decayRate:        0.0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the database and prepares the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	db, err := sqlstore.Open(ctx, s.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	s.db = db
	s.store = sqlstore.NewStore(db, sqlstore.WithLogger(s.logger))
	s.leaderboard = repository.NewTreapStore()
	s.reader = ingest.NewReader(ingest.WithLogger(s.logger))

	s.started = true
	s.logger.Info(ctx, "service started", logger.String("db_path", s.dbPath))
	return nil
}

// Stop closes the service's resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "service stopped")
}

// EstimateVenueFactors loads the match files, estimates a scoring
// factor per venue and persists the result.
func (s *Service) EstimateVenueFactors(ctx context.Context) (venue.Factors, error) {
	deliveries, err := s.reader.LoadDir(ctx, s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	estimator := venue.NewEstimator(
		venue.WithMinSamples(s.venueMinSamples),
		venue.WithClampBand(s.venueClampLow, s.venueClampHigh),
		venue.WithParallelism(s.venueParallelism),
	)
	factors, err := estimator.Estimate(ctx, deliveries)
	if err != nil {
		return nil, fmt.Errorf("estimate venue factors: %w", err)
	}

	if err := s.store.SaveVenueFactors(ctx, factors); err != nil {
		return nil, fmt.Errorf("save venue factors: %w", err)
	}
	metrics.UpdateVenueCount(len(factors))
	s.logger.Info(ctx, "venue factors estimated",
		logger.Int("venues", len(factors)),
		logger.Int("deliveries", len(deliveries)),
	)
	return factors, nil
}

// RunRatings folds the full delivery history into player ratings,
// recording the snapshot trail and final ratings as it goes.
func (s *Service) RunRatings(ctx context.Context) error {
	start := time.Now()

	deliveries, err := s.reader.LoadDir(ctx, s.dataDir)
	if err != nil {
		return fmt.Errorf("load deliveries: %w", err)
	}

	factors, err := s.store.LoadVenueFactors(ctx)
	if err != nil {
		return fmt.Errorf("load venue factors: %w", err)
	}
	if len(factors) == 0 {
		s.logger.Warn(ctx, "no stored venue factors, every venue treated as neutral")
	}

	runID := uuid.NewString()
	if err := s.store.CreateRun(ctx, runID, s.kFactor, s.defaultRating); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	q := snapqueue.NewInMemoryQueue(snapqueue.WithCapacity(s.queueSize))
	recorder := worker.NewRecorder(q, s.store,
		worker.WithBatchSize(s.batchSize),
		worker.WithLogger(s.logger.Named("recorder")),
	)
	go recorder.Run(ctx)

	store := rating.NewStore(s.defaultRating)
	engine := rating.NewEngine(store, factors,
		rating.WithKFactor(s.kFactor),
		rating.WithRunID(runID),
		rating.WithRecorder(&queueRecorder{queue: q}),
		rating.WithLogger(s.logger.Named("engine")),
		rating.WithSeasonalDecay(s.decayThreshold, s.decayRate),
	)

	runErr := engine.Run(ctx, deliveries)

	// Drain the queue before touching the database again so the
	// snapshot trail is complete even when the fold failed.
	_ = q.Close()
	if err := recorder.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "snapshot recorder did not drain cleanly", logger.Error(err))
	}
	if runErr != nil {
		return fmt.Errorf("rating run %s: %w", runID, runErr)
	}

	if err := s.store.SaveFinalRatings(ctx, runID, model.Batting, store.BattingRatings()); err != nil {
		return fmt.Errorf("save batting ratings: %w", err)
	}
	if err := s.store.SaveFinalRatings(ctx, runID, model.Bowling, store.BowlingRatings()); err != nil {
		return fmt.Errorf("save bowling ratings: %w", err)
	}
	if err := s.store.FinishRun(ctx, runID, engine.Processed()); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if err := s.loadLeaderboards(ctx, runID); err != nil {
		return err
	}

	s.mu.Lock()
	s.runID = runID
	s.mu.Unlock()

	metrics.RecordRunDuration(time.Since(start).Seconds())
	s.logger.Info(ctx, "rating run complete",
		logger.String("run_id", runID),
		logger.Int64("deliveries_rated", engine.Processed()),
		logger.Int("players", store.Count()),
	)
	return nil
}

// LoadLatestRun restores the leaderboards from the most recent
// finished run, for serving queries without re-rating.
func (s *Service) LoadLatestRun(ctx context.Context) error {
	runID, err := s.store.LatestRunID(ctx)
	if err != nil {
		return err
	}
	if err := s.loadLeaderboards(ctx, runID); err != nil {
		return err
	}

	s.mu.Lock()
	s.runID = runID
	s.mu.Unlock()

	s.logger.Info(ctx, "restored ratings", logger.String("run_id", runID))
	return nil
}

func (s *Service) loadLeaderboards(ctx context.Context, runID string) error {
	for _, kind := range []model.RatingKind{model.Batting, model.Bowling} {
		ratings, err := s.store.FinalRatings(ctx, runID, kind)
		if err != nil {
			return fmt.Errorf("load %s ratings: %w", kind, err)
		}
		for player, r := range ratings {
			if err := s.leaderboard.Set(ctx, kind, player, r); err != nil {
				return fmt.Errorf("seed %s leaderboard: %w", kind, err)
			}
		}
	}
	return nil
}

// RunID returns the run currently served by the query API.
func (s *Service) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// TopN returns the current-rating leaderboard for a kind.
func (s *Service) TopN(ctx context.Context, kind model.RatingKind, n int) ([]types.Entry, error) {
	return s.leaderboard.TopN(ctx, kind, n)
}

// SeasonTopN ranks players by their last rating within one season.
func (s *Service) SeasonTopN(ctx context.Context, kind model.RatingKind, season string, n int) ([]types.Entry, error) {
	return s.store.SeasonLeaderboard(ctx, s.RunID(), kind, season, n)
}

// PeakTopN ranks players by the highest rating they ever held.
func (s *Service) PeakTopN(ctx context.Context, kind model.RatingKind, n int) ([]types.PeakEntry, error) {
	return s.store.PeakRatings(ctx, s.RunID(), kind, n)
}

// Rank returns a player's current rank and rating.
func (s *Service) Rank(ctx context.Context, kind model.RatingKind, player string) (types.Entry, error) {
	return s.leaderboard.Rank(ctx, kind, player)
}

// History returns a player's full rating time series.
func (s *Service) History(ctx context.Context, player string, kind model.RatingKind) ([]types.HistoryPoint, error) {
	return s.store.PlayerHistory(ctx, s.RunID(), player, kind)
}

// RatingAsOf returns a player's rating on a given date.
func (s *Service) RatingAsOf(ctx context.Context, player string, kind model.RatingKind, date time.Time) (float64, error) {
	return s.store.RatingAsOf(ctx, s.RunID(), player, kind, date)
}

// Players lists every rated player.
func (s *Service) Players(ctx context.Context) []string {
	return s.leaderboard.Players(ctx)
}

// Seasons lists the seasons covered by the served run.
func (s *Service) Seasons(ctx context.Context) ([]string, error) {
	return s.store.Seasons(ctx, s.RunID())
}

// VenueFactors lists the stored venue factors.
func (s *Service) VenueFactors(ctx context.Context) ([]types.VenueFactor, error) {
	factors, err := s.store.LoadVenueFactors(ctx)
	if err != nil {
		return nil, err
	}
	return factors.List(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"run_id":  s.runID,
	}
	if s.started {
		batters := s.leaderboard.Count(ctx, model.Batting)
		bowlers := s.leaderboard.Count(ctx, model.Bowling)
		stats["batters"] = batters
		stats["bowlers"] = bowlers

		if s.runID != "" {
			if count, err := s.store.SnapshotCount(ctx, s.runID); err == nil {
				stats["snapshots"] = count
			}
		}
		metrics.UpdatePlayerCount(len(s.leaderboard.Players(ctx)))
	}
	return stats
}
