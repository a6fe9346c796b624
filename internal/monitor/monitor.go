package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Store connectivity states
const (
	StateUnknown      = "unknown"
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
)

// Pinger is implemented by the database handle
type Pinger interface {
	Ping(ctx context.Context) error
}

// Snapshot is the result of the most recent probe
type Snapshot struct {
	State       string    `json:"state"`
	LastChecked time.Time `json:"last_checked,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

// StoreMonitor pings the store on a cron schedule and keeps the last result
type StoreMonitor struct {
	pinger   Pinger
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	now      func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStoreMonitor creates a monitor; schedule accepts standard cron specs and descriptors such as "@every 30s"
func NewStoreMonitor(pinger Pinger, schedule string, timeout time.Duration) *StoreMonitor {
	return &StoreMonitor{
		pinger:   pinger,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		now:      time.Now,
		snapshot: Snapshot{State: StateUnknown},
	}
}

// Start runs one probe immediately and then schedules the rest
func (m *StoreMonitor) Start(ctx context.Context) error {
	if _, err := m.cron.AddFunc(m.schedule, func() { m.Check(ctx) }); err != nil {
		return fmt.Errorf("invalid monitor schedule %q: %w", m.schedule, err)
	}

	slog.Info("Starting store monitor", "schedule", m.schedule, "timeout", m.timeout)

	m.Check(ctx)
	m.cron.Start()
	return nil
}

// Stop stops scheduling and waits for a running probe or ctx, whichever ends first
func (m *StoreMonitor) Stop(ctx context.Context) {
	slog.Info("Stopping store monitor")

	select {
	case <-m.cron.Stop().Done():
		slog.Info("Store monitor stopped")
	case <-ctx.Done():
		slog.Warn("Timeout waiting for store probe to complete")
	}
}

// Check pings the store once and records the outcome
func (m *StoreMonitor) Check(ctx context.Context) Snapshot {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(pingCtx)

	next := Snapshot{
		State:       StateConnected,
		LastChecked: m.now().UTC(),
	}
	if err != nil {
		next.State = StateDisconnected
		next.LastError = err.Error()
	}

	m.mu.Lock()
	previous := m.snapshot.State
	m.snapshot = next
	m.mu.Unlock()

	switch {
	case previous == next.State:
		slog.Debug("Store probe completed", "state", next.State)
	case next.State == StateDisconnected:
		slog.Error("Store became unreachable", "previous_state", previous, "error", err)
	default:
		slog.Info("Store reachable", "previous_state", previous)
	}

	return next
}

// Status returns the last recorded snapshot
func (m *StoreMonitor) Status() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
