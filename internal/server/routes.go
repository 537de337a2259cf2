package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/sheets", func(r chi.Router) {
		r.Get("/", s.handleListSheets)
		r.Post("/", s.handleCreateSheet)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSheet)
			r.Delete("/", s.handleDeleteSheet)
			r.Get("/cells/{name}", s.handleGetCell)
			r.Put("/cells/{name}", s.handleSetCell)
			r.Get("/graph", s.handleGraph)
			r.Get("/export.xlsx", s.handleExportXLSX)
			r.Get("/export.csv", s.handleExportCSV)
		})
	})
	return r
}
