package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// serviceName is reported on the root info endpoint.
const serviceName = "Incoming Webhook Integration"

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Unauthenticated liveness and info endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)

	// Webhook endpoint behind bearer-token auth
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/webhook", s.handleWebhook)
	})

	return r
}

// handleHealth returns the liveness status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
	})
}

// handleRoot returns service identity and the number of configured switches.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":                serviceName,
		"version":             s.version,
		"status":              "running",
		"switches_configured": s.registry.Count(),
	})
}
