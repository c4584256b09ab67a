package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the form at / and the history API under
// /api/calculations.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Index)
	r.Post("/", h.Submit)

	r.Route("/api/calculations", func(r chi.Router) {
		r.Get("/", h.ListCalculations)
		r.Get("/{id}", h.GetCalculation)
	})
}
