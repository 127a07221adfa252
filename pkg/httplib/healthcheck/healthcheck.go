package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// LivenessPath always answers ok while the process is up.
	LivenessPath = "/health"
	// ReadinessPath answers ok only when every dependency check passes.
	ReadinessPath = "/ready"

	defaultCheckTimeout = 2 * time.Second
)

// Check probes one dependency.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// HealthCheck is the health check handler.
type HealthCheck struct {
	Checks  []Check
	Timeout time.Duration
}

// Handler is used to control the flow of GET /health and GET /ready endpoints
func (hc HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case IsHealthCheckRequest(r):
			hc.ServeHTTP(w, r)

			return
		case IsReadinessRequest(r):
			hc.ServeReady(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// ServeHTTP serve http request for health check
func (hc HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// ServeReady runs every check and reports the failing ones with 503.
func (hc HealthCheck) ServeReady(w http.ResponseWriter, r *http.Request) {
	timeout := hc.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	failures := map[string]string{}
	for _, check := range hc.Checks {
		if err := check.Fn(ctx); err != nil {
			failures[check.Name] = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if len(failures) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "unavailable", "failures": failures})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == LivenessPath
}

// IsReadinessRequest reports whether r targets the readiness endpoint.
func IsReadinessRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == ReadinessPath
}
