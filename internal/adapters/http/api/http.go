// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose leaderboard data.
	TopN(ctx context.Context, kind model.RatingKind, n int) ([]Entry, error)
	SeasonTopN(ctx context.Context, kind model.RatingKind, season string, n int) ([]Entry, error)
	PeakTopN(ctx context.Context, kind model.RatingKind, n int) ([]PeakEntry, error)
	Rank(ctx context.Context, kind model.RatingKind, player string) (Entry, error)

	// Per-player history.
	History(ctx context.Context, player string, kind model.RatingKind) ([]HistoryPoint, error)
	RatingAsOf(ctx context.Context, player string, kind model.RatingKind, date time.Time) (float64, error)

	// Catalogue queries.
	Players(ctx context.Context) []string
	Seasons(ctx context.Context) ([]string, error)
	VenueFactors(ctx context.Context) ([]VenueFactor, error)
}

// Read shapes returned by the query endpoints.
type (
	Entry        = types.Entry
	PeakEntry    = types.PeakEntry
	HistoryPoint = types.HistoryPoint
	VenueFactor  = types.VenueFactor
)

// Server wires HTTP routes for the query API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	playersHandler     *PlayersHandler
	seasonsHandler     *SeasonsHandler
	venuesHandler      *VenuesHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		playersHandler:     NewPlayersHandler(deps),
		seasonsHandler:     NewSeasonsHandler(deps),
		venuesHandler:      NewVenuesHandler(deps),
		dashboardHandler:   newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard/peak", MetricsMiddleware(s.leaderboardHandler.HandleGetPeak, "leaderboard_peak"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayerSubresource, "player"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleListPlayers, "players"))
	mux.HandleFunc("/seasons", MetricsMiddleware(s.seasonsHandler.HandleGetSeasons, "seasons"))
	mux.HandleFunc("/venues", MetricsMiddleware(s.venuesHandler.HandleGetVenues, "venues"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404
// without coupling the handler layer to storage packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// parseKind reads the kind query parameter, defaulting to batting.
func parseKind(r *http.Request) (model.RatingKind, error) {
	raw := r.URL.Query().Get("kind")
	if raw == "" {
		return model.Batting, nil
	}
	kind := model.RatingKind(strings.ToLower(raw))
	if !kind.Valid() {
		return "", ErrUnknownKind
	}
	return kind, nil
}
