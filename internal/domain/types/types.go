// Package types contains common types used across the application
package types

// Entry represents a leaderboard row for one rating kind.
type Entry struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Rating float64 `json:"rating"`
}

// PeakEntry represents a peak-rating leaderboard row: the highest
// rating a player ever held and the year it was reached.
type PeakEntry struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Rating float64 `json:"rating"`
	Year   int     `json:"year"`
}

// HistoryPoint is one observation in a player's rating time series.
type HistoryPoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Match  string  `json:"match"`
	Rating float64 `json:"rating"`
}

// VenueFactor pairs a venue with its scoring-environment factor.
type VenueFactor struct {
	Venue   string  `json:"venue"`
	Factor  float64 `json:"factor"`
	Samples int     `json:"samples"`
}
