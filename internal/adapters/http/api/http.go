// Package api serves the round-trip service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/mmolbparse/internal/app"
	"github.com/okian/mmolbparse/internal/adapters/repository"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Enqueue queues a message for an asynchronous round trip.
	Enqueue(ctx context.Context, msg model.Message) (service.Ack, error)

	// Parse and Unparse run synchronously.
	Parse(ctx context.Context, msg model.Message) (roundtrip.Result, error)
	Unparse(ctx context.Context, msg model.Message, record json.RawMessage) (string, error)

	// Read operations expose stored results.
	Result(ctx context.Context, id string) (roundtrip.Result, error)
	Results(ctx context.Context, filter repository.Filter) ([]roundtrip.Result, error)
}

// Default request limits.
const (
	defaultMaxBatchSize    = 1000
	defaultMaxResultsLimit = 1000
	maxBodyBytes           = 8 << 20
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	parseHandler    *ParseHandler
	messagesHandler *MessagesHandler
	resultsHandler  *ResultsHandler

	maxBatchSize    int
	maxResultsLimit int
	logger          logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBatchSize caps the number of messages in one POST /messages.
func WithMaxBatchSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithMaxResultsLimit caps GET /results?limit.
func WithMaxResultsLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxResultsLimit = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxBatchSize:    defaultMaxBatchSize,
		maxResultsLimit: defaultMaxResultsLimit,
		logger:          logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.parseHandler = NewParseHandler(deps)
	s.messagesHandler = NewMessagesHandler(deps, s.maxBatchSize, s.logger)
	s.resultsHandler = NewResultsHandler(deps, s.maxResultsLimit)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/parse", MetricsMiddleware(s.parseHandler.HandleParse, "parse"))
	mux.HandleFunc("/unparse", MetricsMiddleware(s.parseHandler.HandleUnparse, "unparse"))
	mux.HandleFunc("/messages", MetricsMiddleware(s.messagesHandler.HandlePostMessages, "messages"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandleListResults, "results"))
	mux.HandleFunc("/results/", MetricsMiddleware(s.resultsHandler.HandleGetResult, "result"))

	s.logger.Debug(ctx, "routes registered")
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads one JSON value from the request body.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}
