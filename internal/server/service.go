// Package server provides the HTTP API over the paper graph.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/confmesh/paperkg/internal/graphdb"
	"github.com/confmesh/paperkg/internal/llm"
	"github.com/confmesh/paperkg/internal/search"
	"github.com/confmesh/paperkg/pkg/models"
)

// Service configuration constants
const (
	// DefaultHTTPTimeout bounds a single API request. QA requests carry
	// two LLM round trips, so this is generous.
	DefaultHTTPTimeout = 300 * time.Second

	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultSearchLimit = 20
	MaxSearchLimit     = 100

	DefaultNetworkLimit = 500
	MaxNetworkLimit     = 2000
)

// Store is the graph storage surface the API serves from.
type Store interface {
	ListPapers(ctx context.Context, filter graphdb.PaperFilter) ([]*models.Paper, int, error)
	GetPaper(ctx context.Context, paperID string) (*models.PaperDetail, error)
	GetStatistics(ctx context.Context) (graphdb.Statistics, error)
	ConferenceStats(ctx context.Context) ([]graphdb.ConferenceStatusCount, error)
	GetAuthor(ctx context.Context, authorID string) (*models.AuthorDetail, error)
	CollaborationNetwork(ctx context.Context, filter graphdb.NetworkFilter) (*models.CollaborationNetwork, error)
	SemanticCandidates(ctx context.Context, embedding []float32, limit int, minScore float64) ([]search.SemanticHit, error)
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]graphdb.Row, error)
}

// Searcher runs the fused paper search.
type Searcher interface {
	Search(ctx context.Context, query string, mode search.Mode, limit int) ([]*search.Result, error)
}

// Answerer is the LLM surface behind the QA and summary endpoints.
type Answerer interface {
	Translate(ctx context.Context, question string) (llm.Translation, error)
	AnswerQuestion(ctx context.Context, question, background string, results []map[string]any) (string, error)
	SummarizeReviews(ctx context.Context, paperTitle string, reviews []*models.Review) models.ReviewSummary
}

// QueryEmbedder embeds free text for the raw semantic search endpoint.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Service is the HTTP API server.
type Service struct {
	log       zerolog.Logger
	version   string
	port      int
	minScore  float64
	store     Store
	searcher  Searcher
	answerer  Answerer
	embedder  QueryEmbedder
	router    *chi.Mux
	server    *http.Server
	startTime time.Time
}

// Options wires the service's collaborators.
type Options struct {
	Version  string
	Port     int
	MinScore float64
	Store    Store
	Searcher Searcher
	Answerer Answerer
	Embedder QueryEmbedder
}

// NewService builds the API service and its routes.
func NewService(opts Options, log zerolog.Logger) *Service {
	if opts.MinScore <= 0 {
		opts.MinScore = search.DefaultMinSemanticScore
	}
	s := &Service{
		log:       log.With().Str("component", "server").Logger(),
		version:   opts.Version,
		port:      opts.Port,
		minScore:  opts.MinScore,
		store:     opts.Store,
		searcher:  opts.Searcher,
		answerer:  opts.Answerer,
		embedder:  opts.Embedder,
		router:    chi.NewRouter(),
		startTime: time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Router exposes the configured routes, mainly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

func (s *Service) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))
}

func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)

	s.router.Route("/api/papers", func(r chi.Router) {
		r.Get("/", s.handleListPapers)
		r.Get("/search", s.handleSearchPapers)
		r.Get("/stats", s.handleStatistics)
		r.Get("/{paperID}", s.handleGetPaper)
		r.Get("/{paperID}/review-summary", s.handleReviewSummary)
	})

	s.router.Route("/api/authors", func(r chi.Router) {
		r.Get("/{authorID}", s.handleGetAuthor)
	})

	s.router.Get("/api/graph/collaboration-network", s.handleCollaborationNetwork)

	s.router.Route("/api/qa", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Post("/semantic-search", s.handleSemanticSearch)
		r.Get("/examples", s.handleExamples)
	})
}

// Start begins serving. It blocks until the listener fails or Shutdown
// is called.
func (s *Service) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Int("port", s.port).Str("version", s.version).Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.log.Info().Msg("HTTP server shutdown complete")
	return nil
}
