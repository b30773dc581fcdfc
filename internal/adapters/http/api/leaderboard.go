// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
)

const defaultLeaderboardLimit = 10

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	TopN(ctx context.Context, kind model.RatingKind, n int) ([]Entry, error)
	SeasonTopN(ctx context.Context, kind model.RatingKind, season string, n int) ([]Entry, error)
	PeakTopN(ctx context.Context, kind model.RatingKind, n int) ([]PeakEntry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?kind=&limit=&season= requests.
// Without a season the current-rating board is served; with one, players
// rank by their last rating inside that season.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	kind, err := parseKind(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}
	n, err := h.parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}

	var entries []Entry
	if season := r.URL.Query().Get("season"); season != "" {
		entries, err = h.deps.SeasonTopN(r.Context(), kind, season, n)
	} else {
		entries, err = h.deps.TopN(r.Context(), kind, n)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetPeak handles GET /leaderboard/peak?kind=&limit= requests.
func (h *LeaderboardHandler) HandleGetPeak(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_peak_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	kind, err := parseKind(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}
	n, err := h.parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}
	entries, err := h.deps.PeakTopN(r.Context(), kind, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *LeaderboardHandler) parseLimit(r *http.Request) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return defaultLeaderboardLimit, nil
	}
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 || n > h.maxLimit {
		return 0, ErrBadRequest
	}
	return n, nil
}
