// Package api provides the HTTP API server and handlers for the
// Shelfscope book dashboard.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfscope/shelfscope-server/internal/logger"
	"github.com/shelfscope/shelfscope-server/internal/search"
	"github.com/shelfscope/shelfscope-server/internal/store"
)

// Version reported in the OpenAPI document and health payload.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  store.Store
	search *search.Index
	router *chi.Mux
	api    huma.API
	logger *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, index *search.Index, log *logger.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("Shelfscope API", Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:  st,
		search: index,
		router: router,
		api:    humaAPI,
		logger: log,
	}

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerSearchRoutes()
	s.registerStateRoutes()
	s.registerStatsRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
