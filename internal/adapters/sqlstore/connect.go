// Package sqlstore persists venue factors, rating snapshots and final
// ratings in SQLite. It is the durable side of a rating run: the
// in-memory leaderboard answers current-rating queries, this package
// answers everything historical.
package sqlstore

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite" // driver: sqlite
)

// Open opens the SQLite database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "file:iplelo.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schema = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  started_at INTEGER NOT NULL,
  finished_at INTEGER,
  k_factor REAL NOT NULL,
  default_rating REAL NOT NULL,
  deliveries_rated INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS venue_factors (
  venue TEXT PRIMARY KEY,
  factor REAL NOT NULL,
  samples INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rating_snapshots (
  run_id TEXT NOT NULL,
  player TEXT NOT NULL,
  kind TEXT NOT NULL,
  match_id TEXT NOT NULL DEFAULT '',
  season TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL,
  seq INTEGER NOT NULL,
  rating REAL NOT NULL,
  PRIMARY KEY (run_id, kind, seq, player)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_player
  ON rating_snapshots (run_id, player, kind, seq);

CREATE INDEX IF NOT EXISTS idx_snapshots_season
  ON rating_snapshots (run_id, kind, season);

CREATE TABLE IF NOT EXISTS final_ratings (
  run_id TEXT NOT NULL,
  player TEXT NOT NULL,
  kind TEXT NOT NULL,
  rating REAL NOT NULL,
  PRIMARY KEY (run_id, player, kind)
);
`
