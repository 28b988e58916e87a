// Package api serves the simulation run log as read-only JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/graindeer/internal/engine"
	"github.com/talgya/graindeer/internal/persistence"
	"github.com/talgya/graindeer/internal/report"
	"github.com/talgya/graindeer/internal/weather"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 500
)

// Server serves the run log over HTTP.
type Server struct {
	DB   *persistence.DB
	Port int

	srv *http.Server
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	monthsLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/runs", s.handleRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", s.handleRun)
	mux.HandleFunc("GET /api/v1/runs/{id}/months", RateLimitMiddleware(monthsLimiter, s.handleMonths))
	mux.HandleFunc("GET /api/v1/runs/{id}/months.csv", RateLimitMiddleware(monthsLimiter, s.handleMonthsCSV))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name": "graindeer",
	}

	runs, err := s.DB.Runs(1)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if len(runs) > 0 {
		latest := runs[0]
		status["latest_run"] = latest
		months, err := s.DB.Months(latest.ID)
		if err != nil {
			s.serverError(w, err)
			return
		}
		if len(months) > 0 {
			last := months[len(months)-1]
			status["time"] = engine.SimTime(last.Month, last.Year)
			status["season"] = engine.SeasonName(engine.SeasonOf(last.Month))
			status["deer"] = last.Deer
			status["height_cm"] = weather.InchesToCentimeters(last.Height)
			status["temp_c"] = weather.FahrenheitToCelsius(last.Temp)
			status["precip_cm"] = weather.InchesToCentimeters(last.Precip)
			if latest.Agents > engine.MinAgents {
				status["gas"] = last.Gas
			}
		}
	}
	writeJSON(w, status)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.DB.Runs(limit)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.Run(r.PathValue("id"))
	if errors.Is(err, persistence.ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, run)
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	months, ok := s.months(w, r)
	if !ok {
		return
	}
	writeJSON(w, months)
}

// handleMonthsCSV renders a logged run in the same format the simulator prints.
func (s *Server) handleMonthsCSV(w http.ResponseWriter, r *http.Request) {
	months, ok := s.months(w, r)
	if !ok {
		return
	}
	run, err := s.DB.Run(r.PathValue("id"))
	if err != nil {
		s.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	out := report.NewCSV(w)
	if err := out.Header(run.Agents > engine.MinAgents); err != nil {
		slog.Debug("csv write failed", "error", err)
		return
	}
	for _, m := range months {
		if err := out.Row(m); err != nil {
			slog.Debug("csv write failed", "error", err)
			return
		}
	}
}

func (s *Server) months(w http.ResponseWriter, r *http.Request) ([]engine.Snapshot, bool) {
	months, err := s.DB.Months(r.PathValue("id"))
	if errors.Is(err, persistence.ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.serverError(w, err)
		return nil, false
	}
	if months == nil {
		months = []engine.Snapshot{}
	}
	return months, true
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	slog.Error("api request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
