// Package health aggregates readiness checks for the custodian and API
// processes and serves them over HTTP.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// Status represents the overall health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Response represents the health check response
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents the result of an individual health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// CheckFunc is a function that performs a health check
type CheckFunc func(ctx context.Context) CheckResult

// Checker runs registered checks concurrently and caches the aggregate for
// cacheTimeout.
type Checker struct {
	version      string
	clock        clock.Clock
	checkTimeout time.Duration
	cacheTimeout time.Duration

	mu        sync.RWMutex
	checks    map[string]CheckFunc
	cached    *Response
	lastCheck time.Time
}

// NewChecker creates a new health checker
func NewChecker(version string, clk clock.Clock) *Checker {
	if clk == nil {
		clk = clock.New()
	}
	return &Checker{
		version:      version,
		clock:        clk,
		checks:       make(map[string]CheckFunc),
		checkTimeout: 5 * time.Second,
		cacheTimeout: 10 * time.Second,
	}
}

// Register adds a named check
func (hc *Checker) Register(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
	hc.cached = nil
}

// Names returns the registered check names in order.
func (hc *Checker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs all registered checks
func (hc *Checker) Check(ctx context.Context) *Response {
	hc.mu.RLock()
	if hc.cached != nil && hc.clock.Since(hc.lastCheck) < hc.cacheTimeout {
		cached := hc.cached
		hc.mu.RUnlock()
		return cached
	}
	checks := make(map[string]CheckFunc, len(hc.checks))
	for name, check := range hc.checks {
		checks[name] = check
	}
	hc.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, hc.checkTimeout)
			defer cancel()
			result := check(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	overall := StatusHealthy
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overall = StatusUnhealthy
			break
		}
		if result.Status == StatusDegraded {
			overall = StatusDegraded
		}
	}

	now := hc.clock.Now()
	response := &Response{
		Status:    overall,
		Timestamp: now,
		Version:   hc.version,
		Checks:    results,
	}

	hc.mu.Lock()
	hc.cached = response
	hc.lastCheck = now
	hc.mu.Unlock()

	return response
}

// HealthHandler returns overall health status. Degraded still answers 200.
func (hc *Checker) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := hc.Check(r.Context())

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

// LivenessHandler is a simple liveness probe
func (hc *Checker) LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": hc.clock.Now(),
	})
}

// ReadinessHandler checks if the service is ready to accept traffic
func (hc *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	response := hc.Check(r.Context())

	if response.Status == StatusUnhealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "not_ready",
			"reason":    response.Status,
			"timestamp": response.Timestamp,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": response.Timestamp,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func timed(fn func() error, failed, ok string) CheckResult {
	start := time.Now()
	err := fn()
	latency := time.Since(start).String()
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: failed + ": " + err.Error(), Latency: latency}
	}
	return CheckResult{Status: StatusHealthy, Message: ok, Latency: latency}
}

// LedgerCheck reports whether the ledger answers a ledger-end query.
func LedgerCheck(client ledger.Client) CheckFunc {
	return func(ctx context.Context) CheckResult {
		return timed(func() error {
			_, err := client.LedgerEnd(ctx)
			return err
		}, "Ledger unreachable", "Ledger reachable")
	}
}

// DatabaseCheck creates a health check for database connectivity
func DatabaseCheck(ping func(context.Context) error) CheckFunc {
	return func(ctx context.Context) CheckResult {
		return timed(func() error { return ping(ctx) }, "Database connection failed", "Database connection OK")
	}
}

// ProgressCheck reports the custodian as degraded once lastProgress is older
// than maxAge, and unhealthy when nothing has happened startupGrace after
// the check was created.
func ProgressCheck(lastProgress func() time.Time, maxAge, startupGrace time.Duration, clk clock.Clock) CheckFunc {
	started := clk.Now()
	return func(context.Context) CheckResult {
		last := lastProgress()
		now := clk.Now()
		switch {
		case last.IsZero() && now.Sub(started) > startupGrace:
			return CheckResult{Status: StatusUnhealthy, Message: "no ledger query completed"}
		case last.IsZero():
			return CheckResult{Status: StatusHealthy, Message: "starting"}
		case now.Sub(last) > maxAge:
			return CheckResult{Status: StatusDegraded, Message: "no progress for " + now.Sub(last).String()}
		}
		return CheckResult{Status: StatusHealthy, Message: "last progress " + now.Sub(last).String() + " ago"}
	}
}
