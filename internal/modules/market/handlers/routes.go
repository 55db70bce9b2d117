package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all market valuation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market", func(r chi.Router) {
		r.Get("/drivers/{id}/value", func(w http.ResponseWriter, r *http.Request) {
			h.HandleDriverValue(w, r, chi.URLParam(r, "id"))
		})
		r.Get("/teams/{id}/quality", func(w http.ResponseWriter, r *http.Request) {
			h.HandleTeamQuality(w, r, chi.URLParam(r, "id"))
		})
	})
}
