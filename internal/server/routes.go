package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Document routes
	r.Route("/document", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Post("/", s.openDocument)

		r.Route("/{documentID}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Delete("/", s.closeDocument)

			r.Get("/tree", s.getTree)
			r.Get("/value", s.getValue)
			r.Put("/value", s.updateValue)

			r.Post("/array/add", s.arrayAdd)
			r.Post("/array/remove", s.arrayRemove)
			r.Post("/array/clone", s.arrayClone)

			r.Post("/save", s.saveDocument)
			r.Post("/reload", s.reloadDocument)
			r.Get("/modified", s.getModified)
			r.Get("/diff", s.getDiff)

			r.Get("/schema", s.getSchema)
			r.Post("/schema/reload", s.reloadSchema)
			r.Delete("/schema", s.detachSchema)
		})
	})

	// Schema pin routes
	r.Route("/schema/pin", func(r chi.Router) {
		r.Get("/", s.getPin)
		r.Put("/", s.setPin)
		r.Delete("/", s.removePin)
	})

	// Event streaming (SSE)
	r.Get("/event", s.allEvents)
}
