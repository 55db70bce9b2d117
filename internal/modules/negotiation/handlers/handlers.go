// Package handlers provides HTTP handlers for negotiation sessions.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/modules/negotiation"
	"github.com/apexsim/paddock/internal/services"
)

// Handler handles negotiation HTTP requests. Writes go through the
// negotiation service; reads come straight from the repository.
type Handler struct {
	service  *services.NegotiationService
	sessions *negotiation.Repository
	log      zerolog.Logger
}

// NewHandler creates a new negotiation handler
func NewHandler(
	service *services.NegotiationService,
	sessions *negotiation.Repository,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		log:      log.With().Str("handler", "negotiation").Logger(),
	}
}

// HandleOpen handles POST /api/negotiations
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind           string          `json:"kind"`
		TeamID         string          `json:"team_id"`
		CounterpartyID string          `json:"counterparty_id"`
		Season         int             `json:"season"`
		MaxRounds      int             `json:"max_rounds"`
		Terms          json.RawMessage `json:"terms"`
		Ultimatum      bool            `json:"ultimatum"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind := negotiation.Kind(req.Kind)
	terms, err := decodeTerms(kind, req.Terms)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid terms: %v", err))
		return
	}

	session, err := h.service.Open(services.OpenParams{
		Kind:           kind,
		TeamID:         req.TeamID,
		CounterpartyID: req.CounterpartyID,
		Season:         req.Season,
		MaxRounds:      req.MaxRounds,
		Terms:          terms,
		Ultimatum:      req.Ultimatum,
	})
	if err != nil {
		h.writeSessionError(w, err, "Failed to open negotiation")
		return
	}

	h.writeJSON(w, http.StatusCreated, sessionResponse(session))
}

// HandleList handles GET /api/negotiations
// Returns all sessions still awaiting an outcome.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListActive()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list negotiations")
		h.writeError(w, http.StatusInternalServerError, "Failed to list negotiations")
		return
	}

	items := make([]map[string]interface{}, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, sessionResponse(session))
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  items,
		"count": len(items),
	})
}

// HandleGet handles GET /api/negotiations/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.GetByID(sessionID)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load negotiation")
		h.writeError(w, http.StatusInternalServerError, "Failed to load negotiation")
		return
	}
	if session == nil {
		h.writeError(w, http.StatusNotFound, "Negotiation not found")
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse(session))
}

// HandleOffer handles POST /api/negotiations/{id}/offer
// The team raises or restates its proposal after a counter.
func (h *Handler) HandleOffer(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req struct {
		Terms     json.RawMessage `json:"terms"`
		Ultimatum bool            `json:"ultimatum"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The stored session decides which terms shape applies.
	session, err := h.sessions.GetByID(sessionID)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load negotiation")
		h.writeError(w, http.StatusInternalServerError, "Failed to load negotiation")
		return
	}
	if session == nil {
		h.writeError(w, http.StatusNotFound, "Negotiation not found")
		return
	}

	terms, err := decodeTerms(session.Kind, req.Terms)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid terms: %v", err))
		return
	}

	session, err = h.service.SubmitOffer(sessionID, terms, req.Ultimatum)
	if err != nil {
		h.writeSessionError(w, err, "Failed to submit offer")
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse(session))
}

// HandleRespond handles POST /api/negotiations/{id}/respond
// Asks the counterparty to answer the live proposal.
func (h *Handler) HandleRespond(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, resp, err := h.service.Respond(sessionID)
	if err != nil {
		h.writeSessionError(w, err, "Failed to evaluate negotiation")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":  sessionResponse(session),
		"response": resp,
	})
}

// HandleAccept handles POST /api/negotiations/{id}/accept
// The team takes the counterparty's counter as offered.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.service.AcceptCounter(sessionID)
	if err != nil {
		h.writeSessionError(w, err, "Failed to accept counter")
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse(session))
}

// HandleWithdraw handles DELETE /api/negotiations/{id}
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.service.Withdraw(sessionID)
	if err != nil {
		h.writeSessionError(w, err, "Failed to withdraw")
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse(session))
}

// decodeTerms unmarshals raw terms into the shape the session kind expects
func decodeTerms(kind negotiation.Kind, raw json.RawMessage) (negotiation.Terms, error) {
	if len(raw) == 0 {
		return nil, errors.New("terms are required")
	}

	switch kind {
	case negotiation.KindDriver, negotiation.KindStaff:
		var terms negotiation.CompensationTerms
		if err := json.Unmarshal(raw, &terms); err != nil {
			return nil, err
		}
		return terms, nil
	case negotiation.KindSponsor:
		var terms negotiation.SponsorshipTerms
		if err := json.Unmarshal(raw, &terms); err != nil {
			return nil, err
		}
		return terms, nil
	default:
		return nil, fmt.Errorf("unknown negotiation kind %q", kind)
	}
}

// sessionResponse shapes a session for the API
func sessionResponse(session *negotiation.Session) map[string]interface{} {
	return map[string]interface{}{
		"id":              session.ID,
		"kind":            session.Kind,
		"team_id":         session.TeamID,
		"counterparty_id": session.CounterpartyID,
		"season":          session.Season,
		"phase":           session.Phase,
		"max_rounds":      session.MaxRounds,
		"deadline":        session.Deadline,
		"rounds":          session.Rounds,
		"round_count":     len(session.Rounds),
		"created_at":      session.CreatedAt,
		"updated_at":      session.UpdatedAt,
	}
}

// writeSessionError maps service errors onto HTTP statuses
func (h *Handler) writeSessionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "Negotiation not found")
	case errors.Is(err, negotiation.ErrSessionClosed),
		errors.Is(err, negotiation.ErrNotYourTurn),
		errors.Is(err, negotiation.ErrUltimatumStands),
		errors.Is(err, negotiation.ErrRoundLimit),
		errors.Is(err, negotiation.ErrPhaseTransition):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, negotiation.ErrTermsKind),
		errors.Is(err, negotiation.ErrUnknownKind),
		errors.Is(err, negotiation.ErrMissingParty):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(fallback)
		h.writeError(w, http.StatusInternalServerError, fallback)
	}
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
