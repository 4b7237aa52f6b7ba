// Package api provides the HTTP REST API server for investmodel.
//
// It exposes the valuation, scenario, Monte Carlo and statement
// calculations as JSON endpoints, plus a WebSocket stream that reports
// Monte Carlo progress while a simulation runs.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/config"
	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/engine"
	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// maxBodyBytes caps request bodies; parameter sets are small.
const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	cfgFile string // explicit --config path, empty when searched
	engine  *engine.Engine
	log     *zap.Logger
	metrics *serverMetrics
	limits  *ipLimiter
	wsHub   *WSHub
}

// Options holds everything needed to construct a Server.
type Options struct {
	Config     *config.Config
	ConfigFile string
	Engine     *engine.Engine
	Logger     *zap.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("api: config is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	eng := opts.Engine
	if eng == nil {
		eng = engine.New(engine.Config{Defaults: opts.Config.Engine, Logger: log})
	}

	srv := &Server{
		cfg:     opts.Config,
		cfgFile: opts.ConfigFile,
		engine:  eng,
		log:     log,
		metrics: newServerMetrics(),
		limits:  newIPLimiter(opts.Config.API.RateLimitRPS, opts.Config.API.RateLimitBurst),
		wsHub:   NewWSHub(),
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down gracefully once
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.requestTimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("api: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down api server")
	s.wsHub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) requestTimeout() time.Duration {
	if s.cfg.API.RequestTimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.cfg.API.RequestTimeoutSec) * time.Second
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check and metrics
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket stays outside the timeout group; runs end with the client.
		r.Get("/ws/montecarlo", s.handleMonteCarloStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.requestTimeout()))
			r.Use(s.instrument)

			r.Get("/health", s.handleHealth)
			r.Get("/scenarios/definitions", s.handleScenarioDefinitions)

			// Configuration
			r.Get("/config", s.handleGetConfig)
			r.Get("/config/sources", s.handleGetConfigSources)

			// Calculations
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit)
				r.Post("/metrics", s.handleMetrics)
				r.Post("/scenarios", s.handleScenarios)
				r.Post("/montecarlo", s.handleMonteCarlo)
				r.Post("/reports", s.handleReports)
			})
		})
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// MonteCarloRequest is the body for POST /api/v1/montecarlo and the data
// of a WebSocket "run" message.
type MonteCarloRequest struct {
	Params     models.ProjectParameters `json:"params"`
	Iterations int                      `json:"iterations,omitempty"`
	Seed       *int64                   `json:"seed,omitempty"`
	Workers    int                      `json:"workers,omitempty"`
}

func (req MonteCarloRequest) options() engine.MonteCarloOptions {
	return engine.MonteCarloOptions{
		Iterations: req.Iterations,
		Seed:       req.Seed,
		Workers:    req.Workers,
	}
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":      "ok",
			"version":     Version,
			"ws_clients":  s.wsHub.ClientCount(),
			"server_time": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleScenarioDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.engine.Scenarios()})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var p models.ProjectParameters
	if !decodeBody(w, r, &p) {
		return
	}
	m, err := s.engine.ComputeMetrics(p)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: m})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	var p models.ProjectParameters
	if !decodeBody(w, r, &p) {
		return
	}
	a, err := s.engine.ComputeScenarios(p)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: a})
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.engine.RunMonteCarlo(r.Context(), req.Params, req.options())
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	s.metrics.iterations.Add(float64(res.Iterations))
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: res})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	var p models.ProjectParameters
	if !decodeBody(w, r, &p) {
		return
	}
	rep, err := s.engine.GenerateReports(p)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rep})
}

// ============================================================
// Helpers
// ============================================================

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeEngineError maps engine errors onto HTTP status codes.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		// Left unwritten: middleware.Timeout answers 504 once the handler returns.
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is listening for the body.
		w.WriteHeader(499)
	default:
		s.log.Error("calculation failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
