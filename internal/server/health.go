package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yourusername/trade-log-tracker/internal/service"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string                 `json:"status"`
	Service  string                 `json:"service"`
	Checks   map[string]string      `json:"checks,omitempty"`
	Stats    *service.StatsSnapshot `json:"stats,omitempty"`
	Duration string                 `json:"duration,omitempty"`
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
	})
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
	})
}

// handleReady handles the /ready endpoint - checks the pipeline is wired.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !s.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if s.cfg.Dashboard == nil {
		allHealthy = false
		checks["dashboard"] = "missing"
	} else {
		checks["dashboard"] = "ok"
	}
	if s.cfg.Store == nil {
		allHealthy = false
		checks["ledger_store"] = "missing"
	} else {
		checks["ledger_store"] = "ok"
	}

	// a failing watch serves its last good ledger, so it does not fail readiness
	if s.cfg.Watches != nil {
		for _, w := range s.cfg.Watches.Watches() {
			status := "ok"
			if w.LastError != "" {
				status = "stale"
			}
			checks["watch:"+w.Name] = status
		}
	}

	response := ReadyResponse{
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	if s.cfg.Dashboard != nil {
		snap := s.cfg.Dashboard.Stats().Snapshot()
		response.Stats = &snap
	}

	if allHealthy {
		response.Status = "ok"
		writeJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	writeJSON(w, http.StatusServiceUnavailable, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
