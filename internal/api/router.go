package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/grabba/internal/api/handler"
	mw "github.com/iconidentify/grabba/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured. apiKey may
// be empty, in which case the API is unauthenticated.
func NewRouter(
	mediaHandler *handler.MediaHandler,
	historyHandler *handler.HistoryHandler,
	healthHandler *handler.HealthHandler,
	apiKey string,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(5 * time.Minute))

	// CORS for browser clients
	r.Use(mw.CORS)

	// Health endpoints (no auth)
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if apiKey != "" {
			r.Use(mw.APIKeyAuth(apiKey))
		}

		// System stats
		r.Get("/stats", healthHandler.Stats)

		// Request history
		r.Get("/history", historyHandler.List)

		// Generic endpoints: any supported platform URL
		r.Post("/info", mediaHandler.Info)
		r.Post("/fetch", mediaHandler.Fetch)

		// Per-platform aliases; the handler checks the URL actually
		// belongs to the platform in the path.
		r.Post("/{platform}/info", mediaHandler.Info)
		r.Post("/{platform}/fetch", mediaHandler.Fetch)
	})

	return r
}
