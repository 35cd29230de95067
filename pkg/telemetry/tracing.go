package telemetry

import (
	"context"
	"sync"

	"github.com/vango-dev/dragsort/pkg/dnd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "dragsort"

// TracerConfig configures drag tracing.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "dragsort").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider
}

// TracerOption configures drag tracing.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = tp
	}
}

// Tracer records one span per drag cycle, from drag start to drop. The
// origin container is an attribute; every later target change and every
// transition lock is an event.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer resolves a tracer. Configure the provider before calling it:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		return &Tracer{tracer: otel.Tracer(config.TracerName)}
	}
	return &Tracer{tracer: config.Provider.Tracer(config.TracerName)}
}

// Observe traces drags on coord. Spans are children of ctx and carry attrs.
// The returned function detaches and ends any open span.
func (t *Tracer) Observe(ctx context.Context, coord *dnd.Coordinator, attrs ...attribute.KeyValue) func() {
	var (
		mu   sync.Mutex
		span trace.Span
	)

	stopDragged := coord.OnDraggedChange(func(prev, next dnd.Item) {
		mu.Lock()
		defer mu.Unlock()

		if !next.IsNone() {
			if span != nil {
				// A new drag began without an end event.
				span.SetStatus(codes.Error, "superseded")
				span.End()
			}
			spanAttrs := append([]attribute.KeyValue{
				attribute.String("dragsort.item", next.ID),
			}, attrs...)
			_, span = t.tracer.Start(ctx, "dragsort.drag",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(spanAttrs...),
			)
			return
		}

		if span == nil {
			return
		}
		span.SetAttributes(
			attribute.String("dragsort.dropped_item", prev.ID),
			attribute.String("dragsort.drop_container", containerLabel(coord.Target())),
		)
		span.SetStatus(codes.Ok, "")
		span.End()
		span = nil
	})

	stopTarget := coord.OnTargetChange(func(prev, next dnd.ContainerID) {
		mu.Lock()
		defer mu.Unlock()
		if span == nil || next == dnd.NoContainer {
			return
		}
		if prev == dnd.NoContainer {
			span.SetAttributes(attribute.String("dragsort.origin_container", containerLabel(next)))
			return
		}
		span.AddEvent("target", trace.WithAttributes(
			attribute.String("dragsort.container", containerLabel(next)),
		))
	})

	stopLock := coord.OnLockChange(func(_, next bool) {
		mu.Lock()
		defer mu.Unlock()
		if span == nil {
			return
		}
		name := "transition.end"
		if next {
			name = "transition.start"
		}
		span.AddEvent(name)
	})

	return func() {
		stopDragged()
		stopTarget()
		stopLock()

		mu.Lock()
		defer mu.Unlock()
		if span != nil {
			span.SetStatus(codes.Error, "detached during drag")
			span.End()
			span = nil
		}
	}
}
