package sqlstore

import "errors"

// Store errors.
var (
	// ErrNoRuns indicates no finished rating run exists yet.
	ErrNoRuns = errors.New("no finished rating runs")

	// ErrPlayerNotFound indicates the player has no recorded snapshots.
	ErrPlayerNotFound = errors.New("player not found")
)
