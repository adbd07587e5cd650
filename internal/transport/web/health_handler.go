package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HealthResponse represents the response structure for health check endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`           // "ok" or "error"
	Timestamp time.Time         `json:"timestamp"`        // Current server time
	Checks    map[string]string `json:"checks,omitempty"` // Individual component health
	Uptime    string            `json:"uptime,omitempty"` // Server uptime
}

var startTime = time.Now()

// HealthCheck handles the /health endpoint.
// It always returns 200 OK while the process serves requests and does NOT check
// dependencies. Use /readiness for dependency checks.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    formatUptime(time.Since(startTime)),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ReadinessCheck handles the /readiness endpoint.
// It reports whether the database answers and the clients table can be introspected.
//
// Returns:
//   - 200 OK if all dependencies are healthy
//   - 503 Service Unavailable if any dependency is unhealthy
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database":      h.checkDatabase(ctx),
		"clients_table": h.checkClientsTable(ctx),
	}

	status := "ok"
	httpStatus := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			status = "error"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// checkDatabase verifies database connectivity by executing a simple ping.
func (h *Handler) checkDatabase(ctx context.Context) string {
	if err := h.container.DB.PingContext(ctx); err != nil {
		loggerFrom(ctx).Warn("readiness: database ping failed", "err", err)
		return "error"
	}
	h.container.Metrics.UpdateDatabaseConnections(h.container.DB.Stats().OpenConnections)
	return "ok"
}

// checkClientsTable verifies the configured table exists and has columns.
func (h *Handler) checkClientsTable(ctx context.Context) string {
	if _, err := h.clients.Columns(ctx); err != nil {
		loggerFrom(ctx).Warn("readiness: clients table unavailable", "err", err)
		return "error"
	}
	return "ok"
}

// formatUptime converts a duration into a human-readable uptime string.
// Examples:
//   - 2h 15m 30s
//   - 1d 5h 23m
//   - 45s
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
