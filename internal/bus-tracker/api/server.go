// Package api exposes the departure board and the manual refresh over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/jc3248-sketches/internal/bus-tracker/poller"
	"github.com/jc3248-sketches/internal/bus-tracker/render"
	"github.com/jc3248-sketches/internal/bus-tracker/state"
	"github.com/jc3248-sketches/internal/common/logger"
)

// BoardSource provides the board as currently displayed
type BoardSource interface {
	Snapshot() render.BoardView
}

// PhaseSource reports what the poll loop is doing
type PhaseSource interface {
	Phase() poller.Phase
}

// Config for the HTTP server
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// Server serves the status API
type Server struct {
	config  Config
	board   BoardSource
	tracker *state.Tracker
	phase   PhaseSource
	logger  logger.Logger
	handler http.Handler
}

// NewServer creates the API server and its routes
func NewServer(cfg Config, board BoardSource, tracker *state.Tracker, phase PhaseSource, log logger.Logger) *Server {
	s := &Server{
		config:  cfg,
		board:   board,
		tracker: tracker,
		phase:   phase,
		logger:  log,
	}

	r := mux.NewRouter()
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/board", s.getBoard).Methods(http.MethodGet)
	api.HandleFunc("/departures", s.getDepartures).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.postRefresh).Methods(http.MethodPost)
	api.HandleFunc("/health", s.getHealth).Methods(http.MethodGet)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		MaxAge:         86400,
	})
	s.handler = corsHandler.Handler(r)

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Handler:           s.handler,
		Addr:              s.config.Addr,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", "addr", s.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("serving API: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	s.logger.Info("API server stopped")
	return nil
}
