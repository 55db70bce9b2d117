// Package handlers provides HTTP handlers for market valuation lookups.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/valuation"
)

// ContextBuilder assembles a league snapshot for one season.
type ContextBuilder interface {
	Build(season int) (market.Context, error)
}

// Handler handles market valuation HTTP requests
type Handler struct {
	snapshots     ContextBuilder
	currentSeason int
	log           zerolog.Logger
}

// NewHandler creates a new market handler
func NewHandler(snapshots ContextBuilder, currentSeason int, log zerolog.Logger) *Handler {
	return &Handler{
		snapshots:     snapshots,
		currentSeason: currentSeason,
		log:           log.With().Str("handler", "market").Logger(),
	}
}

// HandleDriverValue handles GET /api/market/drivers/{id}/value
func (h *Handler) HandleDriverValue(w http.ResponseWriter, r *http.Request, driverID string) {
	season := h.seasonParam(r)

	snapshot, err := h.snapshots.Build(season)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build market snapshot")
		h.writeError(w, http.StatusInternalServerError, "Failed to build market snapshot")
		return
	}

	driver, ok := snapshot.DriverByID(driverID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Driver not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"driver_id":       driver.ID,
			"name":            driver.Name,
			"seasons":         len(driver.History),
			"perceived_value": valuation.PerceivedValue(driver.History),
			"market_value":    valuation.MarketValue(driver.ID, driver.History, snapshot.Drivers),
		},
		"metadata": map[string]interface{}{
			"season":    season,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleTeamQuality handles GET /api/market/teams/{id}/quality
func (h *Handler) HandleTeamQuality(w http.ResponseWriter, r *http.Request, teamID string) {
	season := h.seasonParam(r)

	snapshot, err := h.snapshots.Build(season)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build market snapshot")
		h.writeError(w, http.StatusInternalServerError, "Failed to build market snapshot")
		return
	}

	team, ok := snapshot.TeamByID(teamID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Team not found")
		return
	}

	data := map[string]interface{}{
		"team_id":  team.ID,
		"name":     team.Name,
		"prestige": valuation.TeamPrestige(team.Budget, snapshot.Budgets()),
	}

	// Quality needs a finished season behind it. A team without a
	// standing reads as mid-field.
	if pos, ok := snapshot.Position(teamID); ok {
		data["position"] = pos
		data["quality"] = valuation.TeamQuality(pos, snapshot.TotalTeams)
	} else {
		data["quality"] = 0.5
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"season":    season,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) seasonParam(r *http.Request) int {
	if seasonStr := r.URL.Query().Get("season"); seasonStr != "" {
		if parsed, err := strconv.Atoi(seasonStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return h.currentSeason
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
