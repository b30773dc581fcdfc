// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// RatingKind selects one of a player's two independent ratings.
type RatingKind string

// Rating kinds.
const (
	Batting RatingKind = "batting"
	Bowling RatingKind = "bowling"
)

// Valid reports whether k is a known rating kind.
func (k RatingKind) Valid() bool {
	return k == Batting || k == Bowling
}

// Delivery represents a single ball bowled in a match.
// Fields mirror the cricsheet ball-by-ball CSV columns.
type Delivery struct {
	MatchID string    // match identifier, e.g. "335982"
	Season  string    // season label, e.g. "2008" or "2007/08"
	Date    time.Time // match start date
	Venue   string    // ground name

	Innings int // 1-based innings number
	Over    int // 0-based over within the innings
	Ball    int // 1-based ball within the over

	Striker string // batter on strike
	Bowler  string // bowler of the delivery

	RunsOffBat int // runs credited to the batter
	Extras     int // total extras on the delivery
	Wides      int // wide runs, >0 means the ball was a wide
	NoBalls    int // no-ball runs, >0 means the ball was a no-ball

	WicketType      string // dismissal kind, empty if no wicket fell
	PlayerDismissed string // dismissed player, empty if no wicket fell
}

// Key returns the delivery's identity, used for duplicate detection.
func (d Delivery) Key() string {
	return fmt.Sprintf("%s/%d/%d.%d", d.MatchID, d.Innings, d.Over, d.Ball)
}

// Before reports whether d precedes other in the global chronological
// order: match date, then match id, then in-match ball sequence. This
// order is part of the rating contract; reordering deliveries changes
// the resulting ratings.
func (d Delivery) Before(other Delivery) bool {
	if !d.Date.Equal(other.Date) {
		return d.Date.Before(other.Date)
	}
	if d.MatchID != other.MatchID {
		return d.MatchID < other.MatchID
	}
	if d.Innings != other.Innings {
		return d.Innings < other.Innings
	}
	if d.Over != other.Over {
		return d.Over < other.Over
	}
	return d.Ball < other.Ball
}

// Snapshot is an immutable rating observation emitted after an update.
type Snapshot struct {
	RunID  string     // rating run the snapshot belongs to
	Player string     // player identifier
	Kind   RatingKind // batting or bowling
	Match  string     // match during which the rating was reached
	Season string     // season the match belongs to
	Date   time.Time  // match date
	Seq    int64      // global delivery sequence, orders snapshots within a date
	Rating float64    // rating after the update
}
