// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// VenuesDependencies defines the interface for venue factor listing.
type VenuesDependencies interface {
	VenueFactors(ctx context.Context) ([]VenueFactor, error)
}

// VenuesHandler handles venue factor requests.
type VenuesHandler struct {
	deps VenuesDependencies
}

// NewVenuesHandler creates a new venues handler.
func NewVenuesHandler(deps VenuesDependencies) *VenuesHandler {
	return &VenuesHandler{deps: deps}
}

// HandleGetVenues handles GET /venues requests.
func (h *VenuesHandler) HandleGetVenues(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_venues"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	factors, err := h.deps.VenueFactors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, factors)
}
