package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/types"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/venue"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
)

const dateLayout = "2006-01-02"

// Store wraps a SQLite handle with the persistence operations a rating
// run and the query API need.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

// NewStore creates a Store over an opened database.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, log: logger.Get()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle, mainly so callers can close it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveVenueFactors replaces the stored factor for every estimated venue.
func (s *Store) SaveVenueFactors(ctx context.Context, factors venue.Factors) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin venue factor save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO venue_factors (venue,factor,samples,updated_at)
		VALUES (?,?,?,?)
		ON CONFLICT (venue) DO UPDATE SET factor=excluded.factor, samples=excluded.samples, updated_at=excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for name, f := range factors {
		if _, err := stmt.ExecContext(ctx, name, f.Factor, f.Samples, now); err != nil {
			return fmt.Errorf("save factor for %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// LoadVenueFactors reads every stored venue factor. An empty table is
// not an error: the engine falls back to neutral factors.
func (s *Store) LoadVenueFactors(ctx context.Context) (venue.Factors, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT venue, factor, samples FROM venue_factors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	factors := venue.Factors{}
	for rows.Next() {
		var name string
		var f venue.Factor
		if err := rows.Scan(&name, &f.Factor, &f.Samples); err != nil {
			return nil, err
		}
		factors[name] = f
	}
	return factors, rows.Err()
}

// CreateRun registers a new rating run.
func (s *Store) CreateRun(ctx context.Context, runID string, kFactor, defaultRating float64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (id,started_at,k_factor,default_rating)
		VALUES (?,?,?,?)`, runID, time.Now().Unix(), kFactor, defaultRating)
	return err
}

// FinishRun marks a run complete and records how many deliveries it rated.
func (s *Store) FinishRun(ctx context.Context, runID string, deliveriesRated int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE runs SET finished_at=?, deliveries_rated=? WHERE id=?`,
		time.Now().Unix(), deliveriesRated, runID)
	return err
}

// LatestRunID returns the most recently finished run.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs WHERE finished_at IS NOT NULL ORDER BY finished_at DESC, started_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	return id, err
}

// InsertSnapshots writes a batch of snapshots in a single transaction.
func (s *Store) InsertSnapshots(ctx context.Context, snapshots []model.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO rating_snapshots
		(run_id,player,kind,match_id,season,date,seq,rating)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, snap := range snapshots {
		_, err := stmt.ExecContext(ctx, snap.RunID, snap.Player, string(snap.Kind),
			snap.Match, snap.Season, snap.Date.Format(dateLayout), snap.Seq, snap.Rating)
		if err != nil {
			return fmt.Errorf("insert snapshot seq %d: %w", snap.Seq, err)
		}
	}
	return tx.Commit()
}

// SaveFinalRatings stores the end-of-run rating for every player of a kind.
func (s *Store) SaveFinalRatings(ctx context.Context, runID string, kind model.RatingKind, ratings map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin final rating save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO final_ratings (run_id,player,kind,rating)
		VALUES (?,?,?,?)
		ON CONFLICT (run_id,player,kind) DO UPDATE SET rating=excluded.rating`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for player, rating := range ratings {
		if _, err := stmt.ExecContext(ctx, runID, player, string(kind), rating); err != nil {
			return fmt.Errorf("save final rating for %q: %w", player, err)
		}
	}
	return tx.Commit()
}

// FinalRatings reads the end-of-run ratings for a kind, used to rebuild
// the in-memory leaderboard when the query server starts.
func (s *Store) FinalRatings(ctx context.Context, runID string, kind model.RatingKind) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, rating FROM final_ratings WHERE run_id=? AND kind=?`, runID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := map[string]float64{}
	for rows.Next() {
		var player string
		var rating float64
		if err := rows.Scan(&player, &rating); err != nil {
			return nil, err
		}
		ratings[player] = rating
	}
	return ratings, rows.Err()
}

// PlayerHistory returns a player's full rating time series in delivery order.
func (s *Store) PlayerHistory(ctx context.Context, runID, player string, kind model.RatingKind) ([]types.HistoryPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, match_id, rating FROM rating_snapshots
		 WHERE run_id=? AND player=? AND kind=? ORDER BY seq ASC`,
		runID, player, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []types.HistoryPoint
	for rows.Next() {
		var p types.HistoryPoint
		if err := rows.Scan(&p.Date, &p.Match, &p.Rating); err != nil {
			return nil, err
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, player)
	}
	return history, nil
}

// RatingAsOf returns the player's rating after the last rated delivery
// on or before the given date.
func (s *Store) RatingAsOf(ctx context.Context, runID, player string, kind model.RatingKind, date time.Time) (float64, error) {
	var rating float64
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM rating_snapshots
		 WHERE run_id=? AND player=? AND kind=? AND date<=?
		 ORDER BY seq DESC LIMIT 1`,
		runID, player, string(kind), date.Format(dateLayout)).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrPlayerNotFound, player)
	}
	return rating, err
}

// PeakRatings returns the top players by the highest rating they ever
// held, with the year it was reached.
func (s *Store) PeakRatings(ctx context.Context, runID string, kind model.RatingKind, limit int) ([]types.PeakEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, MAX(rating) AS peak, date FROM rating_snapshots
		 WHERE run_id=? AND kind=?
		 GROUP BY player
		 ORDER BY peak DESC, player ASC LIMIT ?`,
		runID, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.PeakEntry
	for rows.Next() {
		var e types.PeakEntry
		var date string
		if err := rows.Scan(&e.Player, &e.Rating, &date); err != nil {
			return nil, err
		}
		if len(date) >= 4 {
			e.Year, _ = strconv.Atoi(date[:4])
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SeasonLeaderboard ranks players by their last rating within a season.
func (s *Store) SeasonLeaderboard(ctx context.Context, runID string, kind model.RatingKind, season string, limit int) ([]types.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, rating FROM rating_snapshots
		 WHERE run_id=? AND kind=? AND season=?
		 GROUP BY player HAVING seq = MAX(seq)
		 ORDER BY rating DESC, player ASC LIMIT ?`,
		runID, string(kind), season, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.Player, &e.Rating); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Seasons lists the distinct seasons a run covered, oldest first.
func (s *Store) Seasons(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT season FROM rating_snapshots
		 WHERE run_id=? AND season != '' ORDER BY season ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []string
	for rows.Next() {
		var season string
		if err := rows.Scan(&season); err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// SnapshotCount returns the number of snapshots recorded for a run.
func (s *Store) SnapshotCount(ctx context.Context, runID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rating_snapshots WHERE run_id=?`, runID).Scan(&count)
	return count, err
}
