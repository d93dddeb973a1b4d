package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/testutil/ledgermock"
)

func healthy(context.Context) CheckResult   { return CheckResult{Status: StatusHealthy} }
func degraded(context.Context) CheckResult  { return CheckResult{Status: StatusDegraded} }
func unhealthy(context.Context) CheckResult { return CheckResult{Status: StatusUnhealthy} }

func TestCheckAggregatesStatus(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", map[string]CheckFunc{"a": healthy, "b": healthy}, StatusHealthy},
		{"one degraded", map[string]CheckFunc{"a": healthy, "b": degraded}, StatusDegraded},
		{"unhealthy wins", map[string]CheckFunc{"a": degraded, "b": unhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewChecker("test", clock.NewMock())
			for name, check := range tt.checks {
				hc.Register(name, check)
			}
			resp := hc.Check(t.Context())
			assert.Equal(t, tt.want, resp.Status)
			assert.Len(t, resp.Checks, len(tt.checks))
			assert.Equal(t, "test", resp.Version)
		})
	}
}

func TestCheckCachesResponse(t *testing.T) {
	clk := clock.NewMock()
	hc := NewChecker("test", clk)

	var calls atomic.Int32
	hc.Register("counter", func(context.Context) CheckResult {
		calls.Add(1)
		return CheckResult{Status: StatusHealthy}
	})

	hc.Check(t.Context())
	hc.Check(t.Context())
	assert.Equal(t, int32(1), calls.Load())

	clk.Add(11 * time.Second)
	hc.Check(t.Context())
	assert.Equal(t, int32(2), calls.Load())
}

func TestHandlers(t *testing.T) {
	hc := NewChecker("test", clock.NewMock())
	hc.Register("db", DatabaseCheck(func(context.Context) error { return errors.New("refused") }))

	w := httptest.NewRecorder()
	hc.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Checks["db"].Message, "refused")

	w = httptest.NewRecorder()
	hc.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	hc.LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLedgerCheck(t *testing.T) {
	result := LedgerCheck(ledgermock.New())(t.Context())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.NotEmpty(t, result.Latency)
}

func TestProgressCheck(t *testing.T) {
	clk := clock.NewMock()
	var last time.Time
	check := ProgressCheck(func() time.Time { return last }, 2*time.Minute, 5*time.Minute, clk)

	assert.Equal(t, StatusHealthy, check(t.Context()).Status)

	clk.Add(6 * time.Minute)
	assert.Equal(t, StatusUnhealthy, check(t.Context()).Status)

	last = clk.Now()
	clk.Add(time.Minute)
	assert.Equal(t, StatusHealthy, check(t.Context()).Status)

	clk.Add(2 * time.Minute)
	assert.Equal(t, StatusDegraded, check(t.Context()).Status)
}

func TestProgressCheckDuringBacklog(t *testing.T) {
	clk := clock.NewMock()
	var last time.Time
	check := ProgressCheck(func() time.Time { return last }, 10*time.Minute, 3*time.Minute, clk)

	// the query completes at once, then each of twenty requests takes one interval
	last = clk.Now()
	for range 20 {
		clk.Add(time.Minute)
		res := check(t.Context())
		require.Equal(t, StatusHealthy, res.Status, res.Message)
		last = clk.Now()
	}
}
