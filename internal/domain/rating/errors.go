package rating

import "errors"

// Sentinel kinds for rating-engine errors.
var (
	ErrMissingMatch  = errors.New("delivery has no match id")
	ErrMissingBatter = errors.New("delivery has no batter")
	ErrMissingBowler = errors.New("delivery has no bowler")
	ErrMissingVenue  = errors.New("delivery has no venue")
	ErrMissingDate   = errors.New("delivery has no match date")
	ErrOutOfOrder    = errors.New("delivery out of chronological order")
)
