package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"manualqa/internal/config"
	"manualqa/internal/docstore"
	"manualqa/internal/extract"
	"manualqa/internal/service"
)

// Server is the HTTP API server for manualqa.
type Server struct {
	router   chi.Router
	ingestor *service.Ingestor
	querier  *service.Querier
	store    *docstore.Store
	stats    *extract.Stats
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(ingestor *service.Ingestor, querier *service.Querier, store *docstore.Store, stats *extract.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		ingestor: ingestor,
		querier:  querier,
		store:    store,
		stats:    stats,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Throttle(s.cfg.RateLimitRPS))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey))
		}

		r.Post("/api/documents", s.handleUpload)
		r.Get("/api/documents/current", s.handleCurrentDocument)
		r.Post("/api/query", s.handleQuery)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
