// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
)

// PlayerDependencies defines the interface for per-player operations.
type PlayerDependencies interface {
	Players(ctx context.Context) []string
	Rank(ctx context.Context, kind model.RatingKind, player string) (Entry, error)
	History(ctx context.Context, player string, kind model.RatingKind) ([]HistoryPoint, error)
	RatingAsOf(ctx context.Context, player string, kind model.RatingKind, date time.Time) (float64, error)
}

// PlayersHandler handles player listing and per-player requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleListPlayers handles GET /players requests.
func (h *PlayersHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Players(r.Context()))
}

// HandlePlayerSubresource routes GET /players/{player}/history and
// GET /players/{player}/rating requests. Player names contain spaces,
// so the identifier is URL-decoded by the router before we see it.
func (h *PlayersHandler) HandlePlayerSubresource(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	player, resource, found := strings.Cut(path, "/")
	if !found || player == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	kind, err := parseKind(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}

	switch resource {
	case "history":
		h.history(w, r, player, kind)
	case "rating":
		h.rating(w, r, player, kind)
	default:
		http.NotFound(w, r)
	}
}

func (h *PlayersHandler) history(w http.ResponseWriter, r *http.Request, player string, kind model.RatingKind) {
	const op = "api.get_player_history"
	history, err := h.deps.History(r.Context(), player, kind)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, history)
}

type ratingResponse struct {
	Player string  `json:"player"`
	Kind   string  `json:"kind"`
	Rating float64 `json:"rating"`
	AsOf   string  `json:"as_of,omitempty"`
}

func (h *PlayersHandler) rating(w http.ResponseWriter, r *http.Request, player string, kind model.RatingKind) {
	const op = "api.get_player_rating"

	// Without asof, serve the current leaderboard entry.
	asof := r.URL.Query().Get("asof")
	if asof == "" {
		entry, err := h.deps.Rank(r.Context(), kind, player)
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, entry)
		return
	}

	date, err := time.Parse("2006-01-02", asof)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rating, err := h.deps.RatingAsOf(r.Context(), player, kind, date)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{
		Player: player,
		Kind:   string(kind),
		Rating: rating,
		AsOf:   asof,
	})
}
