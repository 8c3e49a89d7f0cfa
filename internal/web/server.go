package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds server configuration
type Config struct {
	Port           int
	StaticDir      string // built SPA, served from StaticDir/dist
	AllowedOrigins []string
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config
	listener   net.Listener
	auth       Authenticator
	hub        *Hub
}

// NewServer creates the HTTP server. auth and hub may be nil, in which case
// the websocket endpoint is not mounted.
func NewServer(cfg *Config, auth Authenticator, hub *Hub) *Server {
	srv := &Server{
		router: chi.NewRouter(),
		config: cfg,
		auth:   auth,
		hub:    hub,
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	if s.config.StaticDir != "" {
		assetsFS := http.FileServer(http.Dir(filepath.Join(s.config.StaticDir, "dist", "assets")))
		s.router.Handle("/assets/*", http.StripPrefix("/assets/", assetsFS))
	}

	if s.hub != nil && s.auth != nil {
		s.router.With(RequireAuth(s.auth)).Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			user, _ := UserFrom(r.Context())
			ServeWs(s.hub, w, r, user.ID)
		})
	}

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": "dev"})
	})
}

// AuthHandler serves the auth provider endpoints.
type AuthHandler interface {
	SignUp(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

// RegisterAuthHandler mounts /api/v1/auth. limiter may be nil.
func (s *Server) RegisterAuthHandler(h AuthHandler, limiter *RateLimiter) {
	s.router.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/signup", h.SignUp)
			r.Post("/signin", h.SignIn)
		})
		r.With(RequireAuth(s.auth)).Get("/me", h.Me)
	})
}

// DocumentsHandler serves a user's interview documents.
type DocumentsHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Set(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

// RegisterDocumentsHandler mounts /api/v1/users/{uid}. Only the owner of
// {uid} gets through.
func (s *Server) RegisterDocumentsHandler(h DocumentsHandler) {
	s.router.Route("/api/v1/users/{uid}", func(r chi.Router) {
		r.Use(RequireAuth(s.auth))
		r.Use(RequireOwner("uid"))
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/interviews", h.List)
		r.Get("/interviews/{id}", h.Get)
		r.Put("/interviews/{id}", h.Set)
		r.Patch("/interviews/{id}", h.Update)
		r.Delete("/interviews/{id}", h.Delete)
		r.Get("/stats", h.Stats)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// ServeHTTP dispatches to the router, so a Server can be mounted or tested
// without listening.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetupSPAFallback serves index.html for unknown non-API paths. Call it
// after all API routes are registered.
func (s *Server) SetupSPAFallback() {
	if s.config.StaticDir == "" {
		return
	}

	indexPath := filepath.Join(s.config.StaticDir, "dist", "index.html")
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/assets/") ||
			path == "/ws" ||
			path == "/health" {
			WriteError(w, http.StatusNotFound, CodeNotFound, "no such endpoint")
			return
		}
		http.ServeFile(w, r, indexPath)
	})
}
