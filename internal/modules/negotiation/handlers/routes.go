package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all negotiation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/negotiations", func(r chi.Router) {
		r.Post("/", h.HandleOpen)
		r.Get("/", h.HandleList)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				h.HandleGet(w, r, chi.URLParam(r, "id"))
			})
			r.Post("/offer", func(w http.ResponseWriter, r *http.Request) {
				h.HandleOffer(w, r, chi.URLParam(r, "id"))
			})
			r.Post("/respond", func(w http.ResponseWriter, r *http.Request) {
				h.HandleRespond(w, r, chi.URLParam(r, "id"))
			})
			r.Post("/accept", func(w http.ResponseWriter, r *http.Request) {
				h.HandleAccept(w, r, chi.URLParam(r, "id"))
			})
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				h.HandleWithdraw(w, r, chi.URLParam(r, "id"))
			})
		})
	})
}
