/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the web dashboard
  5. RateLimit:  IP-keyed token bucket
  6. BearerAuth: HS256 JWT check on /api (no-op without a secret)

ROUTE GROUPS:
  /api/terminations/*   Case lifecycle and calculation
  /api/admin/*          Rule administration
  /healthz              Liveness probe (unauthenticated)

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Auth and rate limiting
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options carries the router's deployment settings.
type Options struct {
	AuthSecret  string
	RateLimit   string
	CORSOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if opts.RateLimit != "" {
		r.Use(RateLimit(opts.RateLimit))
	}

	// Liveness probe stays outside auth.
	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(opts.AuthSecret))

		r.Route("/terminations", func(r chi.Router) {
			r.Post("/calculate", h.Calculate)

			// Rule lookups live under /terminations to match the
			// original client contract.
			r.Route("/state-rules", func(r chi.Router) {
				r.Get("/", h.ListStateRules)
				r.Get("/{state}", h.GetStateRule)
			})

			r.Post("/", h.CreateCase)
			r.Get("/", h.ListCases)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetCase)
				r.Put("/", h.UpdateCase)
				r.Post("/advance", h.AdvanceCase)
				r.Post("/back", h.BackCase)
				r.Put("/checklist", h.ToggleChecklist)
				r.Post("/submit", h.SubmitCase)
				r.Get("/events", h.ListCaseEvents)
				r.Get("/statement.pdf", h.Statement)
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/rules", h.UpsertRule)
		})
	})

	return r
}
