// Package router sets up all HTTP routes and middleware chains for the
// Packmart back-office API. Everything under /api requires the operator
// bearer token; the health check is open for load balancers.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"packmart/internal/handlers"
	"packmart/internal/middleware"
	"packmart/internal/models"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, apiTokenHash string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — no auth.
	r.Get("/health", api.Health)

	// API routes — operator bearer token required.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireToken(apiTokenHash))

		// Uploads are heavier than catalog edits; keep the limiter loose
		// enough for a batch-heavy editing session.
		limiter := middleware.NewRateLimiter(300, time.Minute)
		r.Use(limiter.Middleware)

		// Assets
		r.Post("/assets", api.AssetsUpload)
		r.Delete("/assets", api.AssetsDelete)
		r.Post("/assets/cleanup", api.AssetsCleanup)

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoriesList)
			r.Post("/", api.CategoriesCreate)
			r.Get("/{id}", api.CategoriesGet)
			r.Put("/{id}", api.CategoriesUpdate)
			r.Delete("/{id}", api.CategoriesDelete)
			r.Get("/{id}/children", api.CategoriesChildren)
		})

		// Banners
		r.Route("/banners", func(r chi.Router) {
			r.Get("/", api.CollectionsList(models.CollectionBanner))
			r.Post("/", api.CollectionsCreate(models.CollectionBanner))
			r.Put("/{id}", api.CollectionsUpdate)
			r.Delete("/{id}", api.CollectionsDelete)
		})

		// Sliders
		r.Route("/sliders", func(r chi.Router) {
			r.Get("/", api.CollectionsList(models.CollectionSlider))
			r.Post("/", api.CollectionsCreate(models.CollectionSlider))
			r.Put("/{id}", api.CollectionsUpdate)
			r.Delete("/{id}", api.CollectionsDelete)
		})
	})

	return r
}
