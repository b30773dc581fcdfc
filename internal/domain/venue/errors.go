package venue

import "errors"

// Sentinel kinds for estimation errors.
var (
	ErrMissingVenue = errors.New("delivery has no venue")
)
