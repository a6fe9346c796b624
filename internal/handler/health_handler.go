package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/vivek-portfolio/portfolio-api/internal/monitor"
)

// StoreStatus reports the last known store connectivity
type StoreStatus interface {
	Status() monitor.Snapshot
}

// HealthHandler handles service health and readiness checks
type HealthHandler struct {
	pinger    monitor.Pinger
	status    StoreStatus
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pinger monitor.Pinger, status StoreStatus, version string) *HealthHandler {
	return &HealthHandler{
		pinger:    pinger,
		status:    status,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string     `json:"status"`
	Version       string     `json:"version"`
	Timestamp     string     `json:"timestamp"`
	MongoDB       string     `json:"mongodb"`
	LastChecked   *time.Time `json:"last_checked,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	MongoDB string `json:"mongodb"`
}

// Health reports liveness with the store state last seen by the monitor
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	snapshot := h.status.Status()

	response := HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		MongoDB:       snapshot.State,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	if !snapshot.LastChecked.IsZero() {
		response.LastChecked = &snapshot.LastChecked
	}

	writeJSON(w, http.StatusOK, response)
}

// Ready pings the store and answers 503 when it is unreachable
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := ReadyResponse{
		Ready:   true,
		MongoDB: monitor.StateConnected,
	}
	statusCode := http.StatusOK

	if err := h.pinger.Ping(ctx); err != nil {
		response.Ready = false
		response.MongoDB = monitor.StateDisconnected
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, response)
}
