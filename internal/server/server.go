// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the article pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/article-engine/internal/pipeline"
)

// maxBodyBytes bounds the size of a request body.
const maxBodyBytes = 1 << 20

// shutdownTimeout bounds how long in-flight requests get after the context ends.
const shutdownTimeout = 10 * time.Second

// Runner runs one article pipeline and reports on it.
type Runner interface {
	RunReported(ctx context.Context, topic string, extra ...pipeline.Hooks) *pipeline.Report
}

// Server routes article requests to a Runner. Runs are serialized: the
// generation backend never serves two runs at once.
type Server struct {
	Router *chi.Mux

	runner Runner
	logger *zap.Logger
	mu     sync.Mutex
}

// ArticleRequest is the body of POST /v1/articles.
type ArticleRequest struct {
	Topic string `json:"topic"`
}

// errorResponse is the body of a 4xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

// New builds the router.
func New(runner Runner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "article-engine")
	})

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/articles", s.handleArticle)

	s.Router = r
	return s
}

// ServeHTTP lets the Server be used directly as a handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting server", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "topic is required"})
		return
	}

	s.mu.Lock()
	report := s.runner.RunReported(r.Context(), topic)
	s.mu.Unlock()

	log := s.logger.With(
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("run_id", report.RunID),
		zap.String("state", string(report.State)),
	)
	if report.Failed() {
		log.Warn("article run failed", zap.String("cause", report.Final.Failure.Cause))
		writeJSON(w, http.StatusBadGateway, report)
		return
	}
	log.Info("article run succeeded")
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
