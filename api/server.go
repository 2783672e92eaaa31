/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for internal dashboards

ROUTE GROUPS:
  /api/employees/*      Derived results per employee
  /api/badges/*         Badge definition management
  /api/settings         Engine configuration
  /api/leaderboard      Ranking by total points
  /api/levels           Fixed level table
  /api/runs             Batch run audit history
  /api/admin/*          Recompute triggers

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/transactions", h.GetTransactions)
			r.Get("/{id}/badges", h.GetBadges)
		})

		// Badge definition routes
		r.Route("/badges", func(r chi.Router) {
			r.Get("/", h.ListBadgeDefinitions)
			r.Post("/", h.CreateBadgeDefinition)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		// Ranking and level table
		r.Get("/leaderboard", h.Leaderboard)
		r.Get("/levels", h.Levels)

		// Run audit routes
		r.Get("/runs", h.ListRuns)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/recompute", h.TriggerRecompute)
			r.Post("/recompute/{id}", h.RecomputeEmployee)
		})
	})

	return r
}
