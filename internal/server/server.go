package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riggerhire/rigmatch/internal/matcher"
	"github.com/riggerhire/rigmatch/internal/metrics"
	"go.uber.org/zap"
)

// Config holds server settings
type Config struct {
	Addr     string
	Defaults matcher.RankOptions
}

// Server serves the matching API
type Server struct {
	cfg     Config
	matcher *matcher.Matcher
	logger  *zap.Logger
	http    *http.Server
}

// New creates a Server backed by m
func New(cfg Config, m *matcher.Matcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, matcher: m, logger: logger}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.instrument("healthz", s.handleHealth))
	mux.HandleFunc("POST /v1/score", s.instrument("score", s.handleScore))
	mux.HandleFunc("POST /v1/rank", s.instrument("rank", s.handleRank))
	mux.HandleFunc("POST /v1/candidates/{id}/rank", s.instrument("candidate_rank", s.handleCandidateRank))
	mux.HandleFunc("GET /v1/candidates/{id}/matches", s.instrument("candidate_matches", s.handleMatchHistory))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Info("request",
			zap.String("route", route),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error      string   `json:"error"`
	FailedJobs []string `json:"failed_jobs,omitempty"`
}

func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	body := ErrorResponse{Error: err.Error()}

	var failure *matcher.ScoringFailure
	if errors.As(err, &failure) {
		body.FailedJobs = failure.JobIDs()
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}

	s.jsonResponse(w, status, body)
}
