// Package telemetry configures OpenTelemetry tracing and metrics for the
// custodian and API processes.
package telemetry

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceVersion = "0.1.0"

// Config holds the configuration for telemetry
type Config struct {
	// Tracing configuration
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	Insecure     bool    `mapstructure:"insecure"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	Environment  string  `mapstructure:"environment"`

	// PrometheusEnabled exports OpenTelemetry metrics through the default
	// Prometheus registry served on the ops server.
	PrometheusEnabled bool `mapstructure:"prometheus_enabled"`
}

// DefaultConfig returns telemetry disabled with an OTLP collector on localhost
func DefaultConfig() Config {
	return Config{
		OTLPEndpoint:      "http://localhost:4318",
		Insecure:          true,
		SampleRate:        1,
		Environment:       "local",
		PrometheusEnabled: true,
	}
}

// Validate validates the telemetry configuration
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.OTLPEndpoint == "" {
		return fmt.Errorf("otlp endpoint is required")
	}
	u, err := url.Parse(c.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("invalid otlp endpoint: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid otlp endpoint %q: missing host", c.OTLPEndpoint)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample rate must be between 0 and 1")
	}
	return nil
}

// Provider manages OpenTelemetry tracing and metrics
type Provider struct {
	service        string
	config         Config
	tracerProvider *tracesdk.TracerProvider
	meterProvider  *metricsdk.MeterProvider
}

// NewProvider installs the global tracer and meter providers for service. A
// disabled config returns a provider that leaves the no-op globals in place.
func NewProvider(ctx context.Context, service string, cfg Config) (*Provider, error) {
	p := &Provider{service: service, config: cfg}
	if !cfg.Enabled {
		return p, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(service),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := p.initTracing(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if cfg.PrometheusEnabled {
		if err := p.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}
	return p, nil
}

// initTracing sets up OTLP/HTTP trace export
func (p *Provider) initTracing(ctx context.Context, res *resource.Resource) error {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(p.config.OTLPEndpoint + "/v1/traces")}
	if p.config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(p.config.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	p.tracerProvider = tp
	return nil
}

// initMetrics sets up the Prometheus metric reader
func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	mp := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)
	p.meterProvider = mp
	return nil
}

// Shutdown flushes and stops the providers
func (p *Provider) Shutdown(ctx context.Context) error {
	var err error
	if p.tracerProvider != nil {
		if shutdownErr := p.tracerProvider.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("failed to shutdown tracer provider: %w", shutdownErr)
		}
	}
	if p.meterProvider != nil {
		if shutdownErr := p.meterProvider.Shutdown(ctx); shutdownErr != nil {
			if err != nil {
				err = fmt.Errorf("%w; failed to shutdown meter provider: %w", err, shutdownErr)
			} else {
				err = fmt.Errorf("failed to shutdown meter provider: %w", shutdownErr)
			}
		}
	}
	return err
}

// Tracer returns the service tracer
func (p *Provider) Tracer() trace.Tracer {
	return otel.Tracer(p.service)
}

// Meter returns the service meter
func (p *Provider) Meter() metric.Meter {
	return otel.Meter(p.service)
}

// HealthCheck verifies that telemetry is properly initialized
func (p *Provider) HealthCheck() error {
	if !p.config.Enabled {
		return nil
	}
	if p.tracerProvider == nil {
		return fmt.Errorf("tracer provider not initialized")
	}
	if p.config.PrometheusEnabled && p.meterProvider == nil {
		return fmt.Errorf("meter provider not initialized but Prometheus is enabled")
	}
	return nil
}

// RecordError records an error on span
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
