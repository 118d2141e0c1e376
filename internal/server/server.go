// Package server provides the HTTP API over open document sessions.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/conftree/conftree/internal/config"
	"github.com/conftree/conftree/internal/discovery"
	"github.com/conftree/conftree/internal/session"
	"github.com/conftree/conftree/internal/storage"
	"github.com/conftree/conftree/internal/watcher"
)

// Config holds server configuration.
type Config struct {
	Port         int
	Directory    string
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		Directory:    "",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for SSE
	}
}

// Server is the HTTP server.
type Server struct {
	config     *Config
	appConfig  *config.Config
	router     *chi.Mux
	httpSrv    *http.Server
	manager    *session.Manager
	pins       *discovery.PinStore
	discoverer *discovery.Discoverer

	mu       sync.Mutex
	watchers map[string]*watcher.Watcher
}

// New creates a new Server instance.
func New(cfg *Config, appConfig *config.Config, store *storage.Store) *Server {
	r := chi.NewRouter()

	pins := discovery.NewPinStore(store)
	disc := &discovery.Discoverer{
		Pins:      pins,
		Suffix:    appConfig.SuffixOrDefault(),
		ExtraDirs: appConfig.SchemaDirs,
	}

	indent := appConfig.IndentOrDefault()
	s := &Server{
		config:     cfg,
		appConfig:  appConfig,
		router:     r,
		pins:       pins,
		discoverer: disc,
		manager: session.NewManager(session.Options{
			Discoverer: disc,
			Indent:     indent,
		}),
		watchers: make(map[string]*watcher.Watcher),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// watchSession starts a file watcher for the session unless one is running.
func (s *Server) watchSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.watchers[sess.ID()]; ok {
		return
	}
	w, err := watcher.New(sess)
	if err != nil {
		return
	}
	w.Start()
	s.watchers[sess.ID()] = w
}

// unwatchSession stops and forgets the session's watcher.
func (s *Server) unwatchSession(id string) {
	s.mu.Lock()
	w, ok := s.watchers[id]
	delete(s.watchers, id)
	s.mu.Unlock()
	if ok {
		w.Stop()
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for id, w := range s.watchers {
		w.Stop()
		delete(s.watchers, id)
	}
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
