// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"
)

// readyChecker reports whether a handler's backing services are usable.
type readyChecker interface {
	HandlerReady() bool
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks []readyChecker
}

// NewHealthHandler creates a HealthHandler over the given readiness checks.
func NewHealthHandler(checks ...readyChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HandleLivez handles GET /livez. The process is alive if it can answer.
func (h *HealthHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// HandleReadyz handles GET /readyz. Readiness requires every registered
// handler to have its dependencies wired and connected.
func (h *HealthHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	for _, check := range h.checks {
		if !check.HandlerReady() {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("service not ready\n"))
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// HandleRoot handles GET / with a service identity document.
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"service": "attendance-service",
		"status":  "running",
	})
}
