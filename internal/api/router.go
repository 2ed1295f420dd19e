package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IBBoard/bbreplay-sub000/internal/api/handlers"
	"github.com/IBBoard/bbreplay-sub000/internal/api/response"
	"github.com/IBBoard/bbreplay-sub000/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint; ?replay= narrows the stream to one replay
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.runs != nil {
			runHandler := handlers.NewRunHandler(s.runs)
			r.Route("/runs", func(r chi.Router) {
				r.Get("/", runHandler.ListRuns)
				r.Get("/stats", runHandler.GetStats)
				r.Get("/{runID}", runHandler.GetRun)
				r.Delete("/{runID}", runHandler.DeleteRun)
				r.Get("/{runID}/events", runHandler.GetRunEvents)
			})
		}

		r.Get("/metrics", s.replays.GetMetrics)

		r.Route("/replays", func(r chi.Router) {
			r.Get("/", s.replays.ListReplays)
			r.Post("/{name}/reconstruct", s.replays.Reconstruct)
			r.Post("/{name}/stream", s.replays.Stream)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "bbreplay-api",
		"version":   version.GetVersion(),
		"clients":   s.wsHub.ClientCount(),
		"recording": s.runs != nil,
	})
}
