package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"disabled ignores endpoint", func(c *Config) { c.OTLPEndpoint = "" }, false},
		{"enabled", func(c *Config) { c.Enabled = true }, false},
		{"missing endpoint", func(c *Config) { c.Enabled = true; c.OTLPEndpoint = "" }, true},
		{"endpoint without host", func(c *Config) { c.Enabled = true; c.OTLPEndpoint = "localhost" }, true},
		{"sample rate above one", func(c *Config) { c.Enabled = true; c.SampleRate = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if tt.wantErr {
				require.Error(t, cfg.Validate())
			} else {
				require.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestDisabledProvider(t *testing.T) {
	p, err := NewProvider(t.Context(), "denote-test", DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, p.HealthCheck())
	require.NotNil(t, p.Tracer())
	require.NotNil(t, p.Meter())
	require.NoError(t, p.Shutdown(t.Context()))
}

func TestEnabledProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true

	p, err := NewProvider(t.Context(), "denote-test", cfg)
	require.NoError(t, err)
	require.NoError(t, p.HealthCheck())
	require.NoError(t, p.Shutdown(t.Context()))

	cfg.SampleRate = -1
	_, err = NewProvider(t.Context(), "denote-test", cfg)
	require.Error(t, err)
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(t.Context(), "op")

	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Equal(t, "boom", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
}
