/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/users/*      Per-user views (live requests, balances)
  /api/requests/*   Submission and chain history
  /api/approvals/*  Approver inbox and decisions
  /api/admin/*      Adjustments and allocations
  /api/holidays/*   Holiday calendar
  /api/profiles/*   Collaborator profiles

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

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}/requests", h.GetLiveRequests)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/comp", h.GetLifetimeComp)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/leave", h.SubmitLeave)
			r.Post("/overtime", h.SubmitOvertime)
			r.Get("/{id}/history", h.GetChainHistory)
		})

		r.Route("/approvals", func(r chi.Router) {
			r.Get("/pending", h.GetPendingApprovals)
			r.Post("/{id}/decide", h.DecideLine)
		})

		r.Get("/balances", h.GetOrgBalances)
		r.Get("/calendar", h.GetCalendar)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/adjustments", h.CreateAdjustment)
			r.Post("/allocations", h.SetAllocation)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.SaveHoliday)
			r.Delete("/{date}", h.DeleteHoliday)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.ListProfiles)
			r.Get("/{id}", h.GetProfile)
			r.Put("/{id}", h.SaveProfile)
		})
	})

	return r
}
