/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Wires the chi router, middleware stack, and routes to the handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for log correlation
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       The desktop shell's webview origin

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

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/password-reset", h.PasswordReset)

		r.Route("/personnel", func(r chi.Router) {
			r.Get("/", h.ListPersonnel)
			r.Post("/", h.CreatePersonnel)
			r.Get("/{tc}", h.GetPersonnel)
		})

		r.Route("/fhsz", func(r chi.Router) {
			r.Get("/annual", h.AnnualSummary)
			r.Get("/monthly", h.MonthlyCumulative)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.PostLeave)
			r.Delete("/{id}", h.CancelLeave)
			r.Get("/balance/{tc}", h.LeaveBalance)
		})
	})

	return r
}
