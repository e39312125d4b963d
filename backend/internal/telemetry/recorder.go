package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"portfolio-assistant/backend/pkg/logger"
)

const instrumentationName = "portfolio-assistant"

// Outcome is what an instrumented answer reports back to the recorder
type Outcome struct {
	Source     string
	Intent     string
	Confidence float64
}

// Recorder wraps answer calls in a span and counts answers by source.
// A Recorder with no providers uses the global otel ones, which are no-ops
// until the process configures real exporters.
type Recorder struct {
	tracer  trace.Tracer
	answers metric.Int64Counter
	latency metric.Float64Histogram
	logger  *zap.Logger
}

// Option configures a Recorder
type Option func(*options)

type options struct {
	tp trace.TracerProvider
	mp metric.MeterProvider
}

// WithTracerProvider sets the provider spans are created from
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tp = tp }
}

// WithMeterProvider sets the provider instruments are created from
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.mp = mp }
}

// NewRecorder creates a recorder and its instruments
func NewRecorder(opts ...Option) (*Recorder, error) {
	o := options{
		tp: otel.GetTracerProvider(),
		mp: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.mp.Meter(instrumentationName)
	answers, err := meter.Int64Counter(
		"assistant.answers",
		metric.WithDescription("Number of answers produced, by source tier"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create answers counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"assistant.answer.duration",
		metric.WithDescription("Time spent producing an answer"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &Recorder{
		tracer:  o.tp.Tracer(instrumentationName),
		answers: answers,
		latency: latency,
		logger:  logger.Get(),
	}, nil
}

// Answer runs fn inside an `assistant.answer` span tagged with the surface
// that asked, then records the outcome as span attributes and metrics
func (r *Recorder) Answer(ctx context.Context, surface string, fn func(context.Context) Outcome) Outcome {
	ctx, span := r.tracer.Start(ctx, "assistant.answer",
		trace.WithAttributes(attribute.String("assistant.surface", surface)),
	)
	defer span.End()

	start := time.Now()
	out := fn(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	attrs := []attribute.KeyValue{
		attribute.String("assistant.source", out.Source),
		attribute.String("assistant.intent", out.Intent),
		attribute.Float64("assistant.confidence", out.Confidence),
	}
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")

	tags := metric.WithAttributes(
		attribute.String("assistant.source", out.Source),
		attribute.String("assistant.surface", surface),
	)
	r.answers.Add(ctx, 1, tags)
	r.latency.Record(ctx, elapsed, tags)

	r.logger.Debug("Answer recorded",
		zap.String("surface", surface),
		zap.String("source", out.Source),
		zap.Float64("confidence", out.Confidence),
		zap.Float64("duration_ms", elapsed),
	)
	return out
}
