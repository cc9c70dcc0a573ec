package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/shop-scout/internal/db"
	"github.com/ziadkadry99/shop-scout/internal/feedback"
	"github.com/ziadkadry99/shop-scout/internal/stages"
)

// Config holds server configuration.
type Config struct {
	Port       int
	AllowAll   bool // allow all CORS origins (dev mode)
	CycleLimit int
}

// Server exposes the shopping pipeline over HTTP: one thin adapter per
// stage, a composite run endpoint with suspend/resume, and a websocket
// session endpoint.
type Server struct {
	cfg      Config
	db       *db.DB
	deps     stages.Deps // Prompter and Out are filled per request
	sessions *SessionStore
	feedback *feedback.Store

	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies. deps.Prompter is ignored;
// each request gets its own scripted prompter.
func New(cfg Config, database *db.DB, deps stages.Deps, fb *feedback.Store) *Server {
	s := &Server{
		cfg:      cfg,
		db:       database,
		deps:     deps,
		sessions: NewSessionStore(database),
		feedback: fb,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.registerSessionRoutes(r)
	s.registerStageRoutes(r)
	r.Get("/ws/session", s.handleWebSocket)

	if s.feedback != nil {
		feedback.RegisterRoutes(r, s.feedback)
	}

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("shopscout server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
