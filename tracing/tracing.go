// Package tracing installs an OpenTelemetry tracer provider that exports the
// engine's spans over OTLP gRPC.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/pagekit/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Config represents tracing configuration
type Config struct {
	Enabled            bool          `mapstructure:"enabled"`
	Endpoint           string        `mapstructure:"endpoint"` // OTLP gRPC collector, host:port
	ServiceName        string        `mapstructure:"service_name"`
	Environment        string        `mapstructure:"environment"`
	SamplingRate       float64       `mapstructure:"sampling_rate"`
	BatchTimeout       time.Duration `mapstructure:"batch_timeout"`
	ExportTimeout      time.Duration `mapstructure:"export_timeout"`
	MaxExportBatchSize int           `mapstructure:"max_export_batch_size"`
}

// DefaultConfig returns the default tracing configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:            false,
		Endpoint:           "localhost:4317",
		ServiceName:        "pagekit",
		SamplingRate:       1,
		BatchTimeout:       5 * time.Second,
		ExportTimeout:      30 * time.Second,
		MaxExportBatchSize: 512,
	}
}

// Validate validates the tracing configuration
func (c *Config) Validate() error {
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("tracing sampling rate must be within [0, 1], got %v", c.SamplingRate)
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("tracing endpoint is empty")
	}
	return nil
}

// Sampler returns the parent-based ratio sampler for the configuration.
func (c *Config) Sampler() sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SamplingRate))
}

// Resource describes the service for exported spans.
func (c *Config) Resource(ctx context.Context, info version.Info) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(c.ServiceName),
			attribute.String("version", info.Version),
			attribute.String("branch", info.Branch),
			attribute.String("revision", info.Revision),
			attribute.String("environment", c.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// Setup installs a global tracer provider exporting to cfg.Endpoint and
// returns its shutdown function. A disabled configuration installs nothing
// and returns a no-op shutdown.
func Setup(ctx context.Context, cfg *Config, info version.Info) (func(context.Context) error, error) {
	if cfg == nil || !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := cfg.Resource(ctx, info)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(cfg.Sampler()),
		sdktrace.WithBatcher(exp,
			sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatchSize),
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithExportTimeout(cfg.ExportTimeout),
		),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp.Shutdown, nil
}
