package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public, no auth required.
	r.Get("/health", g.handleHealth())
	r.Handle("/metrics", promhttp.Handler())

	// WebSocket channel mount. Clients authenticate per-connection in the
	// channel itself, not through the API bearer token.
	if g.ws != nil {
		r.Handle("/ws", g.ws)
	}

	r.Group(func(r chi.Router) {
		if g.config.BearerToken != "" {
			r.Use(authMiddleware(g.config.BearerToken))
		}
		r.Route("/api", func(r chi.Router) {
			r.Get("/reminders", g.handleListReminders())
			r.Post("/reminders", g.handleCreateReminder())
			r.Delete("/reminders/{id}", g.handleCancelReminder())
		})
	})

	return r
}
