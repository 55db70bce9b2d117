package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scouting routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/scouting", func(r chi.Router) {
		r.Get("/drivers/{id}/report", func(w http.ResponseWriter, r *http.Request) {
			h.HandleDriverReport(w, r, chi.URLParam(r, "id"))
		})
		r.Get("/chiefs/{id}/grade", func(w http.ResponseWriter, r *http.Request) {
			h.HandleChiefGrade(w, r, chi.URLParam(r, "id"))
		})
	})

	r.Get("/teams/{id}/targets", func(w http.ResponseWriter, r *http.Request) {
		h.HandleTeamTargets(w, r, chi.URLParam(r, "id"))
	})
}
