// Package handlers provides HTTP handlers for scouting reports.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/modules/scouting"
)

// Handler handles scouting HTTP requests
type Handler struct {
	service       *scouting.Service
	currentSeason int
	log           zerolog.Logger
}

// NewHandler creates a new scouting handler
func NewHandler(service *scouting.Service, currentSeason int, log zerolog.Logger) *Handler {
	return &Handler{
		service:       service,
		currentSeason: currentSeason,
		log:           log.With().Str("handler", "scouting").Logger(),
	}
}

// HandleDriverReport handles GET /api/scouting/drivers/{id}/report
func (h *Handler) HandleDriverReport(w http.ResponseWriter, r *http.Request, driverID string) {
	season := h.seasonParam(r)

	report, err := h.service.DriverReport(driverID, season)
	if err != nil {
		h.writeLookupError(w, err, "Failed to build driver report")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"season":    season,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleChiefGrade handles GET /api/scouting/chiefs/{id}/grade
// The viewer parameter decides whose scouts are doing the reading.
func (h *Handler) HandleChiefGrade(w http.ResponseWriter, r *http.Request, chiefID string) {
	viewerID := r.URL.Query().Get("viewer")
	if viewerID == "" {
		h.writeError(w, http.StatusBadRequest, "viewer parameter is required")
		return
	}

	report, err := h.service.ChiefGrade(chiefID, viewerID)
	if err != nil {
		h.writeLookupError(w, err, "Failed to grade chief")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleTeamTargets handles GET /api/teams/{id}/targets
func (h *Handler) HandleTeamTargets(w http.ResponseWriter, r *http.Request, teamID string) {
	season := h.seasonParam(r)

	years := 3
	if yearsStr := r.URL.Query().Get("years"); yearsStr != "" {
		if parsed, err := strconv.Atoi(yearsStr); err == nil && parsed > 0 {
			years = parsed
		}
	}

	targets, err := h.service.Targets(teamID, years, season)
	if err != nil {
		h.writeLookupError(w, err, "Failed to rank targets")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": targets,
		"metadata": map[string]interface{}{
			"season":    season,
			"years":     years,
			"count":     len(targets),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// seasonParam reads the season override, defaulting to the league's
// current season.
func (h *Handler) seasonParam(r *http.Request) int {
	if seasonStr := r.URL.Query().Get("season"); seasonStr != "" {
		if parsed, err := strconv.Atoi(seasonStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return h.currentSeason
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, scouting.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.log.Error().Err(err).Msg(fallback)
	h.writeError(w, http.StatusInternalServerError, fallback)
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
