// Package api provides the HTTP API server and handlers for MusicGraph.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/ratelimit"
	"github.com/musicgraph/musicgraph-server/internal/service"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth   *service.AuthService
	Admin  *service.AdminService
	Genre  *service.GenreService
	Band   *service.BandService
	Graph  *service.GraphService
	Search *service.SearchService
}

// Options configures the HTTP surface.
type Options struct {
	Version        string
	CORSOrigins    []string
	MetricsEnabled bool
	// Registry receives the HTTP metrics. Nil uses the default registerer.
	Registry       *prometheus.Registry
	LoginRateLimit int // per minute per client IP
	LoginRateBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	services     *Services
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	loginLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, log *slog.Logger) *Server {
	log = logger.OrDiscard(log)
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.LoginRateLimit <= 0 {
		opts.LoginRateLimit = 10
	}
	if opts.LoginRateBurst <= 0 {
		opts.LoginRateBurst = 5
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	if opts.MetricsEnabled {
		router.Use(newHTTPMetrics(opts.Registry).middleware)
	}
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	router.Use(authMiddleware(services.Auth))

	if opts.MetricsEnabled {
		var h http.Handler = promhttp.Handler()
		if opts.Registry != nil {
			h = promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})
		}
		router.Handle("/metrics", h)
	}

	humaConfig := huma.DefaultConfig("MusicGraph API", opts.Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:        st,
		services:     services,
		router:       router,
		api:          api,
		logger:       log,
		loginLimiter: ratelimit.PerMinute(opts.LoginRateLimit, opts.LoginRateBurst),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerGraphRoutes()
	s.registerGenreRoutes()
	s.registerBandRoutes()
	s.registerSearchRoutes()
	s.registerAdminRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}
