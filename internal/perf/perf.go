// Package perf records OpenTelemetry spans for commands and portal requests
// and keeps them in memory so a run can report or export its timings.
package perf

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/furrctorio/furrctorio"

var ErrDisabled = errors.New("performance tracing is disabled")

type Config struct {
	Enabled bool
}

var (
	mu       sync.RWMutex
	provider *sdktrace.TracerProvider
	exporter *spanExporter
	tracer   trace.Tracer = noop.NewTracerProvider().Tracer(tracerName)
)

// Init replaces any previous tracing state. A disabled config installs a
// no-op tracer so StartSpan stays cheap.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if err := shutdownLocked(context.Background()); err != nil {
		return err
	}

	if !cfg.Enabled {
		tracer = noop.NewTracerProvider().Tracer(tracerName)
		return nil
	}

	exporter = newSpanExporter()
	provider = sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exporter),
	)
	tracer = provider.Tracer(tracerName)
	return nil
}

// Reset drops recorded spans and returns to the disabled state.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	_ = shutdownLocked(context.Background())
	tracer = noop.NewTracerProvider().Tracer(tracerName)
}

func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	return shutdownLocked(ctx)
}

func shutdownLocked(ctx context.Context) error {
	var err error
	if provider != nil {
		err = provider.Shutdown(ctx)
	}
	provider = nil
	exporter = nil
	return err
}

// TracerProvider is handed to instrumented transports so their spans land
// next to ours. It is a no-op provider while tracing is disabled.
func TracerProvider() trace.TracerProvider {
	mu.RLock()
	defer mu.RUnlock()
	if provider == nil {
		return noop.NewTracerProvider()
	}
	return provider
}

type Span struct {
	span trace.Span
}

type spanConfig struct {
	attributes []attribute.KeyValue
}

type SpanOption func(*spanConfig)

func WithAttributes(attrs ...attribute.KeyValue) SpanOption {
	return func(cfg *spanConfig) {
		cfg.attributes = append(cfg.attributes, attrs...)
	}
}

func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := spanConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	mu.RLock()
	current := tracer
	mu.RUnlock()

	ctx, span := current.Start(ctx, name, trace.WithAttributes(cfg.attributes...))
	return ctx, &Span{span: span}
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s == nil {
		return
	}
	s.span.SetAttributes(attrs...)
}

func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	if s == nil {
		return
	}
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError marks the span failed. A nil error is ignored.
func (s *Span) RecordError(err error) {
	if s == nil || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *Span) End() {
	if s == nil {
		return
	}
	s.span.End()
}

// SnapshotSpans returns every span ended since Init.
func SnapshotSpans() ([]sdktrace.ReadOnlySpan, error) {
	mu.RLock()
	defer mu.RUnlock()
	if exporter == nil {
		return nil, ErrDisabled
	}
	return exporter.Snapshot(), nil
}
