// Package tracing initializes OpenTelemetry tracing for playback and answer
// handling.
package tracing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/oddear/internal/log"
)

// Instrumentation scope used by every oddear tracer.
const ScopeName = "github.com/zjrosen/oddear"

// Exporter names.
const (
	ExporterFile = "file"
	ExporterOTLP = "otlp"
)

// Config selects the exporter. A disabled config installs nothing.
type Config struct {
	Enabled     bool
	Exporter    string
	FilePath    string
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	ServiceName string
	Version     string
}

// Shutdown flushes pending spans and releases exporter resources.
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// DefaultFilePath is where the file exporter writes when no path is set.
// Spans never go to stdout because the terminal belongs to the UI.
func DefaultFilePath() string {
	return filepath.Join(os.TempDir(), "oddear-traces.jsonl")
}

// Init installs a global tracer provider described by cfg.
func Init(ctx context.Context, cfg Config) (Shutdown, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", orDefault(cfg.ServiceName, "oddear")),
		attribute.String("service.version", orDefault(cfg.Version, "dev")),
	)

	var (
		exp     sdktrace.SpanExporter
		cleanup = func() error { return nil }
	)
	switch cfg.Exporter {
	case ExporterFile, "":
		path := orDefault(cfg.FilePath, DefaultFilePath())
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("tracing: open %s: %w", path, err)
		}
		exp, err = stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("tracing: create file exporter: %w", err)
		}
		cleanup = f.Close
		log.Info(log.CatTrace, "Writing traces to file", "path", path)
	case ExporterOTLP:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		var err error
		exp, err = otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("tracing: create otlp exporter: %w", err)
		}
		log.Info(log.CatTrace, "Exporting traces over OTLP", "endpoint", cfg.Endpoint)
	default:
		return nil, fmt.Errorf("tracing: unknown exporter %q", cfg.Exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if cerr := cleanup(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

// Tracer returns the oddear tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(ScopeName)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
