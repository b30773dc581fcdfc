// Package repository holds the in-memory leaderboards of current
// ratings, one per rating kind.
package repository

import (
	"context"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/types"
)

// Store provides read/write access to the current-rating leaderboards.
type Store interface {
	// Set stores the player's current rating of a kind, replacing any
	// previous value.
	Set(ctx context.Context, kind model.RatingKind, player string, rating float64) error

	// Rank returns the player's current rank and rating.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, kind model.RatingKind, player string) (types.Entry, error)

	// TopN returns the top-N entries ordered by rating desc.
	TopN(ctx context.Context, kind model.RatingKind, n int) ([]types.Entry, error)

	// Count returns the number of players on a leaderboard.
	Count(ctx context.Context, kind model.RatingKind) int

	// Players returns every player on either leaderboard, sorted.
	Players(ctx context.Context) []string
}
