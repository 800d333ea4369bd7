// Package api serves the strand HTTP API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/strand/internal/app"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	handler *Handler
	c       *app.Container
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration. The write
// timeout leaves room for a full plan generation.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 130 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server over the container's handlers.
func NewServer(cfg ServerConfig, c *app.Container) *Server {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		handler: NewHandler(c),
		c:       c,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	h := s.handler

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /livez", s.handleHealth)
	s.mux.Handle("GET /readyz", s.c.Health.ReadinessHandler())
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Plans
	s.mux.HandleFunc("POST /api/v1/plans", h.GeneratePlan)
	s.mux.HandleFunc("POST /api/v1/plans/regenerate", h.RegeneratePlan)
	s.mux.HandleFunc("GET /api/v1/users/{uid}/plan/current", h.GetCurrentPlan)
	s.mux.HandleFunc("GET /api/v1/users/{uid}/plan/history", h.ListPlanHistory)
	s.mux.HandleFunc("POST /api/v1/users/{uid}/weeklyFeedback", h.SubmitFeedback)
	s.mux.HandleFunc("GET /api/v1/users/{uid}/weeklyFeedback/latest", h.GetLatestFeedback)

	// Routine and streak
	s.mux.HandleFunc("GET /api/v1/users/{uid}/stats/streak", h.GetStreak)
	s.mux.HandleFunc("GET /api/v1/users/{uid}/dailyCompletions/{date}", h.GetToday)
	s.mux.HandleFunc("POST /api/v1/users/{uid}/dailyCompletions/{date}/toggle", h.ToggleAction)
	s.mux.HandleFunc("POST /api/v1/users/{uid}/dailyCompletions/{date}/settle", h.SettleDay)
	s.mux.HandleFunc("GET /api/v1/users/{uid}/calendar", h.GetCalendar)
	s.mux.HandleFunc("POST /api/v1/users/{uid}/calendar/export", h.ExportCalendar)

	// Profile
	s.mux.HandleFunc("GET /api/v1/users/{uid}", h.GetProfile)
	s.mux.HandleFunc("PUT /api/v1/users/{uid}", h.SaveProfile)

	// Academy
	s.mux.HandleFunc("GET /api/v1/lessons", h.ListLessons)
	s.mux.HandleFunc("GET /api/v1/users/{uid}/academy", h.GetLearner)
	s.mux.HandleFunc("POST /api/v1/users/{uid}/academy/lessons/{id}", h.CompleteLesson)
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return requestLogging(s.logger, s.c.Metrics, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.c.Metrics.Snapshot())
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}
