package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/types"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/metrics"
)

// Treap-based, in-memory leaderboard implementation.
//
// Ordering: rating DESC, then player ASC (deterministic). The BST
// comparator treats "less" as ranking earlier, so in-order traversal
// produces the leaderboard from best to worst.

// ratingScale controls fixed-point scaling from float64. Ratings stay
// within a few thousand points, so nine decimal places fit comfortably
// in int64.
const ratingScale = 1_000_000_000

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return ratingFP(math.MaxInt64)
	}
	if math.IsInf(x, -1) {
		return ratingFP(math.MinInt64)
	}
	scaled := x * ratingScale
	if scaled > float64(math.MaxInt64) {
		return ratingFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return ratingFP(math.MinInt64)
	}
	return ratingFP(math.Round(scaled))
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

// treap node
type node struct {
	player string
	rating ratingFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aRating, aPlayer) ranks earlier than
// (bRating, bPlayer).
func less(aRating ratingFP, aPlayer string, bRating ratingFP, bPlayer string) bool {
	if aRating != bRating {
		return aRating > bRating // higher rating ranks earlier
	}
	return aPlayer < bPlayer // tie-breaker by player asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// ratingToPriority keeps higher ratings nearer the treap root. The
// offset shifts negative fixed-point values into unsigned range.
func ratingToPriority(rating ratingFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(rating) + offset
}

func insert(n *node, player string, rating ratingFP) *node {
	if n == nil {
		return &node{player: player, rating: rating, prio: ratingToPriority(rating), size: 1}
	}
	if less(rating, player, n.rating, n.player) {
		n.left = insert(n.left, player, rating)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, player, rating)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, player string, rating ratingFP) *node {
	if n == nil {
		return nil
	}
	if rating == n.rating && player == n.player {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, player, rating)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, player, rating)
		}
	} else if less(rating, player, n.rating, n.player) {
		n.left = deleteNode(n.left, player, rating)
	} else {
		n.right = deleteNode(n.right, player, rating)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, types.Entry{Player: n.player, Rating: toFloat(n.rating)})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// collectAll appends all entries in rank order.
func collectAll(n *node, out *[]types.Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, out)
	*out = append(*out, types.Entry{Player: n.player, Rating: toFloat(n.rating)})
	collectAll(n.right, out)
}

// board is one kind's leaderboard.
type board struct {
	root     *node
	byPlayer map[string]ratingFP
}

// TreapStore implements Store with a treap per rating kind.
type TreapStore struct {
	mu     sync.RWMutex
	boards map[model.RatingKind]*board
}

// NewTreapStore constructs an empty dual leaderboard.
func NewTreapStore() *TreapStore {
	return &TreapStore{
		boards: map[model.RatingKind]*board{
			model.Batting: {byPlayer: make(map[string]ratingFP)},
			model.Bowling: {byPlayer: make(map[string]ratingFP)},
		},
	}
}

// Set stores the player's current rating in O(log n) expected time.
// Unlike a best-score board, ratings move both ways, so the previous
// value is always replaced.
func (s *TreapStore) Set(ctx context.Context, kind model.RatingKind, player string, rating float64) error {
	b, ok := s.boards[kind]
	if !ok {
		return ErrUnknownKind
	}
	nr := toFixedPoint(rating)

	s.mu.Lock()
	if old, exists := b.byPlayer[player]; exists {
		if old == nr {
			s.mu.Unlock()
			return nil
		}
		b.root = deleteNode(b.root, player, old)
	}
	b.byPlayer[player] = nr
	b.root = insert(b.root, player, nr)
	s.mu.Unlock()

	metrics.UpdatePlayerCount(len(s.Players(ctx)))
	return nil
}

// Rank returns the player's current rank and rating.
func (s *TreapStore) Rank(_ context.Context, kind model.RatingKind, player string) (types.Entry, error) {
	b, ok := s.boards[kind]
	if !ok {
		return types.Entry{}, ErrUnknownKind
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := b.byPlayer[player]; !exists {
		return types.Entry{}, ErrNotFound
	}

	all := make([]types.Entry, 0, len(b.byPlayer))
	collectAll(b.root, &all)
	assignRanksWithTies(all)

	for _, entry := range all {
		if entry.Player == player {
			return entry, nil
		}
	}
	return types.Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by rating desc.
func (s *TreapStore) TopN(_ context.Context, kind model.RatingKind, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	b, ok := s.boards[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Entry, 0, n)
	collectTopN(b.root, n, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of players on a leaderboard.
func (s *TreapStore) Count(_ context.Context, kind model.RatingKind) int {
	b, ok := s.boards[kind]
	if !ok {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(b.byPlayer)
}

// Players returns every player on either leaderboard, sorted.
func (s *TreapStore) Players(_ context.Context) []string {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for _, b := range s.boards {
		for player := range b.byPlayer {
			seen[player] = struct{}{}
		}
	}
	s.mu.RUnlock()

	players := make([]string, 0, len(seen))
	for player := range seen {
		players = append(players, player)
	}
	sort.Strings(players)
	return players
}

// assignRanksWithTies assigns ranks so players with equal ratings share
// a rank and the following rank is consecutive.
func assignRanksWithTies(entries []types.Entry) {
	if len(entries) == 0 {
		return
	}
	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank
		sameCount := 1
		for j := i + 1; j < len(entries) && entries[j].Rating == entries[i].Rating; j++ {
			entries[j].Rank = currentRank
			sameCount++
		}
		currentRank++
		i += sameCount - 1
	}
}
