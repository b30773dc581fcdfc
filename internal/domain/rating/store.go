// Package rating implements the Elo update engine and the in-memory
// rating store it folds over.
package rating

import (
	"sort"
)

// DefaultRating seeds every player's batting and bowling ratings the
// first time they appear in the delivery stream.
const DefaultRating = 1500.0

// Store maps player identity to current batting and bowling ratings.
// Unseen players are seeded lazily at the default on first access; no
// pre-registration, no history. The engine is the only writer.
type Store struct {
	defaultRating float64
	batting       map[string]float64
	bowling       map[string]float64
}

// NewStore creates an empty store seeding unseen players at defaultRating.
func NewStore(defaultRating float64) *Store {
	if defaultRating <= 0 {
		defaultRating = DefaultRating
	}
	return &Store{
		defaultRating: defaultRating,
		batting:       make(map[string]float64),
		bowling:       make(map[string]float64),
	}
}

// GetBatting returns the player's current batting rating, seeding the
// default if the player has never batted.
func (s *Store) GetBatting(player string) float64 {
	if r, ok := s.batting[player]; ok {
		return r
	}
	s.batting[player] = s.defaultRating
	return s.defaultRating
}

// GetBowling returns the player's current bowling rating, seeding the
// default if the player has never bowled.
func (s *Store) GetBowling(player string) float64 {
	if r, ok := s.bowling[player]; ok {
		return r
	}
	s.bowling[player] = s.defaultRating
	return s.defaultRating
}

// SetBatting writes the player's batting rating.
func (s *Store) SetBatting(player string, rating float64) {
	s.batting[player] = rating
}

// SetBowling writes the player's bowling rating.
func (s *Store) SetBowling(player string, rating float64) {
	s.bowling[player] = rating
}

// Players returns every player the store has seen, sorted by id.
func (s *Store) Players() []string {
	set := make(map[string]struct{}, len(s.batting)+len(s.bowling))
	for p := range s.batting {
		set[p] = struct{}{}
	}
	for p := range s.bowling {
		set[p] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// BattingRatings returns a copy of the batting rating table.
func (s *Store) BattingRatings() map[string]float64 {
	out := make(map[string]float64, len(s.batting))
	for p, r := range s.batting {
		out[p] = r
	}
	return out
}

// BowlingRatings returns a copy of the bowling rating table.
func (s *Store) BowlingRatings() map[string]float64 {
	out := make(map[string]float64, len(s.bowling))
	for p, r := range s.bowling {
		out[p] = r
	}
	return out
}

// Count returns the number of distinct players tracked.
func (s *Store) Count() int {
	set := make(map[string]struct{}, len(s.batting)+len(s.bowling))
	for p := range s.batting {
		set[p] = struct{}{}
	}
	for p := range s.bowling {
		set[p] = struct{}{}
	}
	return len(set)
}
