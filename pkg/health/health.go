// Package health provides liveness and readiness checks for a running
// simulation, served by the status listener.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/opd-ai/go-lander/pkg/physics"
)

// Status strings reported by checks and by the aggregate
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck is one component check.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the aggregate result of all registered checks.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs registered checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a checker with no checks.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck unregisters a check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every check in name order. The aggregate is healthy only
// when every check passes.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	checks := make(map[string]HealthCheck, len(hc.checks))
	for k, v := range hc.checks {
		checks[k] = v
	}
	hc.mu.RUnlock()
	sort.Strings(names)

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(names)),
	}
	for _, name := range names {
		if err := checks[name].Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessHandler runs every check with a five second budget and answers
// 200 when all pass, 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)
	code := http.StatusOK
	if health.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// SimulationHealthCheck reports the lander state as unhealthy once any of
// its quantities stops being a finite number or the tank goes negative.
type SimulationHealthCheck struct {
	snapshot func() physics.LanderState
}

// NewSimulationHealthCheck creates a check reading state through snapshot.
func NewSimulationHealthCheck(snapshot func() physics.LanderState) *SimulationHealthCheck {
	return &SimulationHealthCheck{snapshot: snapshot}
}

// Name returns "simulation".
func (s *SimulationHealthCheck) Name() string {
	return "simulation"
}

// Check validates the current state.
func (s *SimulationHealthCheck) Check(ctx context.Context) error {
	state := s.snapshot()
	fields := []struct {
		name  string
		value float64
	}{
		{"altitude", state.Altitude},
		{"velocity", state.Velocity},
		{"fuel", state.Fuel},
		{"time", state.Time},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s is not finite: %v", f.name, f.value)
		}
	}
	if state.Fuel < 0 {
		return fmt.Errorf("fuel is negative: %v", state.Fuel)
	}
	return nil
}

// InputHealthCheck is unhealthy while the input source is disabled.
type InputHealthCheck struct {
	disabled func() bool
}

// NewInputHealthCheck creates a check polling disabled.
func NewInputHealthCheck(disabled func() bool) *InputHealthCheck {
	return &InputHealthCheck{disabled: disabled}
}

// Name returns "input".
func (i *InputHealthCheck) Name() string {
	return "input"
}

// Check fails while the input circuit breaker is open.
func (i *InputHealthCheck) Check(ctx context.Context) error {
	if i.disabled() {
		return fmt.Errorf("input source is disabled after repeated failures")
	}
	return nil
}

// MemoryHealthCheck fails when heap usage exceeds a limit.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a memory check. A nil getMemoryUsage reads
// the Go heap.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	if getMemoryUsage == nil {
		getMemoryUsage = heapMB
	}
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

func heapMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.HeapAlloc / 1024 / 1024)
}

// Name returns "memory".
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check compares current usage with the limit.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	if current := m.getMemoryUsage(); current > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", current, m.maxMemoryMB)
	}
	return nil
}
