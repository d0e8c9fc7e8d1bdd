package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up the JSON endpoints for scripted clients
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, acceptedOrigins []string) {
	r.Get("/healthz", handlers.healthHandler.health())

	r.Route("/api", func(r chi.Router) {
		r.Use(corsMiddleware(acceptedOrigins))
		r.Get("/artworks/search", handlers.artworkHandler.searchArtworks())
	})
}

// setupFrontendRoutes sets up the HTML pages, all scoped to a browser session
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, sessions sessionManager) {
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles()))))

	r.Group(func(r chi.Router) {
		r.Use(sessions.middleware)

		// List
		r.Get("/", handlers.listHandler.listProjects())
		r.Get("/projects/{projectID}/delete", handlers.listHandler.confirmDelete())
		r.Post("/projects/{projectID}/delete", handlers.listHandler.deleteProject())

		// Creation
		r.Get("/projects/new", handlers.createHandler.newProject())
		r.Post("/projects/new", handlers.createHandler.createProject())
		r.Post("/projects/new/search", handlers.createHandler.search())
		r.Post("/projects/new/places", handlers.createHandler.addArtwork())
		r.Post("/projects/new/places/{artworkID}/delete", handlers.createHandler.removeArtwork())
		r.Post("/projects/new/cancel", handlers.createHandler.cancel())

		// Detail
		r.Get("/projects/{projectID}", handlers.detailHandler.getProject())
		r.Post("/projects/{projectID}/places", handlers.detailHandler.addPlace())
		r.Get("/projects/{projectID}/edit", handlers.detailHandler.editProject())
		r.Post("/projects/{projectID}/edit", handlers.detailHandler.updateProject())
		r.Post("/projects/{projectID}/places/{placeID}/visited", handlers.detailHandler.toggleVisited())
		r.Post("/projects/{projectID}/places/{placeID}/notes", handlers.detailHandler.saveNotes())
	})
}
