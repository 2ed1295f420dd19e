// Package api serves stored runs over REST and streams live reconstructions
// over WebSocket.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/IBBoard/bbreplay-sub000/internal/api/handlers"
	"github.com/IBBoard/bbreplay-sub000/internal/api/websocket"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/metrics"
	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	origins    []string

	// WebSocket hub for streamed reconstructions
	wsHub *websocket.Hub

	runs    *storage.RunRepository
	replays *handlers.ReplayHandler
	metrics *metrics.RunMetrics

	// cancel stops background streams on shutdown.
	cancel context.CancelFunc
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	ReplayDir   string
	StreamRate  float64
	CORSOrigins []string
	Options     replay.Options
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		StreamRate:  10,
		CORSOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

// NewServer creates a new API server over the results database. db may be
// nil, in which case reconstructions are not recorded and the run routes
// are unavailable.
func NewServer(cfg *Config, db *storage.DB) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = DefaultConfig().CORSOrigins
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		router:  chi.NewRouter(),
		port:    cfg.Port,
		origins: origins,
		wsHub:   websocket.NewHub(),
		metrics: metrics.NewRunMetrics(),
		cancel:  cancel,
	}

	var store *storage.RunRepository
	if db != nil {
		store = db.Runs()
		s.runs = store
	}
	replayCfg := handlers.ReplayConfig{
		Dir:        cfg.ReplayDir,
		Options:    cfg.Options,
		StreamRate: cfg.StreamRate,
		Metrics:    s.metrics,
	}
	if store != nil {
		s.replays = handlers.NewReplayHandler(base, replayCfg, store, s.wsHub)
	} else {
		s.replays = handlers.NewReplayHandler(base, replayCfg, nil, s.wsHub)
	}

	s.setupMiddleware()
	s.setupRoutes()

	go s.wsHub.Run()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Real IP detection
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(middleware.Logger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	// Request timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Content-Type enforcement for requests with bodies
	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("[API] Server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[API] Server error: %v", err)
		}
	}()

	return nil
}

// Shutdown stops running streams, the hub and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("[API] Shutting down...")
	s.cancel()
	s.replays.Wait()
	s.wsHub.Stop()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's reconstruction counters.
func (s *Server) Metrics() *metrics.RunMetrics {
	return s.metrics
}

// WebSocketHub returns the WebSocket hub for external integration.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
