// Package api provides the HTTP API server and handlers for the book-club server.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookclubapp/bookclub-server/internal/ratelimit"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the HTTP surface.
type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64 // Largest decoded image accepted by the upload endpoint
	LoginPerMinute int
	LoginBurst     int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     *Services
	db           Pinger
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	loginLimiter *ratelimit.KeyedRateLimiter
	opts         Options
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, db Pinger, opts Options, logger *slog.Logger) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		services:     services,
		db:           db,
		router:       chi.NewRouter(),
		logger:       logger,
		loginLimiter: newLoginLimiter(opts.LoginPerMinute, opts.LoginBurst),
		opts:         opts,
	}

	s.setupMiddleware()

	config := huma.DefaultConfig("Book Club API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	// Bodies are wrapped in response.Envelope, so huma's $schema link hook is dropped:
	// it would rewrite error models before the envelope sees them.
	config.CreateHooks = nil
	config.Transformers = []huma.Transformer{EnvelopeTransformer}
	s.api = humachi.New(s.router, config)

	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(authMiddleware(s.services.Auth))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerGroupRoutes()
	s.registerMemberRoutes()
	s.registerCategoryRoutes()
	s.registerBookRoutes()
	s.registerOpinionRoutes()
	s.registerImageRoutes()

	// Image bytes bypass huma so they are not wrapped in the JSON envelope.
	s.router.Get("/resources/category-image/{imageID}", s.handleCategoryImage)
}

// bearer is the security requirement attached to authenticated operations.
var bearer = []map[string][]string{{"bearer": {}}}
