package web

import (
	"github.com/go-chi/chi/v5"

	"canvasbridge/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	selectionHandler := handlers.NewSelectionHandler(s.panel)
	placeHandler := handlers.NewPlaceHandler(s.panel)
	settingsHandler := handlers.NewSettingsHandler(s.store)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Selection geometry
		r.Post("/selection/fit", selectionHandler.Fit)
		r.Post("/selection/rescale", selectionHandler.Rescale)
		r.Post("/selection/extract", selectionHandler.Extract)

		// Placement and generation
		r.Post("/place", placeHandler.Place)
		r.Post("/generate", placeHandler.Generate)

		// Catalog
		r.Get("/ratios", handlers.ListRatios)

		// Persisted settings
		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Update)
	})
}
